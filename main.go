/*
Copyright 2025 Markus Papenbrock
*/
package main

import "github.com/mpapenbr/gp-playoffs/cmd"

func main() {
	cmd.Execute()
}
