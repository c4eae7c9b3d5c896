package main

import "github.com/ryclarke/git-req/cmd"

func main() {
	cmd.Execute()
}
