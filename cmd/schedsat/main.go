// Copyright 2018-2024 Onai (Onu Technology, Inc.)
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// The schedsat command schedules commitments over scarce service calls.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	log "github.com/golang/glog"
	"github.com/onai/schedsat/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.NewRootCommand().ExecuteContext(ctx)
	stop()
	code := cli.ExitCode(err)
	switch code {
	case cli.ExitSuccess:
	case cli.ExitFailure:
		fmt.Fprintln(os.Stderr, err)
	default:
		log.Errorf("schedsat: %v", err)
	}
	log.Flush()
	os.Exit(code)
}
