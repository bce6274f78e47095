package main

import "github.com/frahmantamala/leave-approval/cmd"

func main() {
	cmd.Execute()
}
