package main

import sopsguard "github.com/sopsguard/sopsguard/cmd/sopsguard"

func main() { sopsguard.Execute() }
