package main

import "noracloud/servicenextcloud/cmd"

func main() {
	cmd.Execute()
}
