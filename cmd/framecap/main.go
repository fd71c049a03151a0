package main

import "github.com/vcaplab/framecap/cmd/framecap/cmd"

func main() {
	cmd.Execute()
}
