package main

import "github.com/Data-Only-Greater/d3d-cec-verify/cmd"

func main() {
	cmd.Execute()
}
