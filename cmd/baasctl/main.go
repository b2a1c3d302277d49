package main

import "github.com/scttfrdmn/baasclient/cmd"

func main() {
	cmd.Execute()
}
