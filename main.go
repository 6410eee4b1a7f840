package main

import "github.com/space2study/ms-go-api/cmd"

func main() {
	cmd.Execute()
}
