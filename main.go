package main

import "github.com/jkvdb/jKV/cmd"

func main() {
	cmd.Execute()
}
