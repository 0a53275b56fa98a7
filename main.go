package main

import "github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/cmd"

func main() {
	cmd.Execute()
}
