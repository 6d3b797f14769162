/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

// rebalanceCommands defines a one-shot rebalance pass, meant for cron or
// manual operation. Without --apply it only reports what would move.
func rebalanceCommands(b *regiondInstance) *cobra.Command {
	var platform string
	var apply bool

	cmd := &cobra.Command{
		Use:   "rebalance",
		Short: "move accounts away from overloaded regions",
		Run: func(cmd *cobra.Command, args []string) {
			result, err := b.regiond.RebalanceAssignments(context.Background(), platform, !apply)
			if err != nil {
				log.Fatalf("Error rebalancing: %v", err)
			}

			data, err := json.MarshalIndent(result, "", "    ")
			if err != nil {
				log.Fatalf("Error printing result: %v", err)
			}
			fmt.Println(string(data))
		},
	}

	cmd.Flags().StringVar(&platform, "platform", "", "restrict the pass to one platform")
	cmd.Flags().BoolVar(&apply, "apply", false, "persist the reassignments instead of reporting them")

	return cmd
}
