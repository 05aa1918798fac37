package main

import "github.com/nekruzvatanshoev/addrsuggest/pkg/cmd"

func main() {
	cmd.Execute()
}
