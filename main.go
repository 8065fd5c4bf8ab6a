// Command crmboard is a Kanban board for a sales pipeline.
package main

import "github.com/twiced-technology-gmbh/crmboard/cmd"

func main() {
	cmd.Execute()
}
