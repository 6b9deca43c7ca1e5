package main

// _version is the version of codefig.
// Release builds override it with -ldflags.
var _version = "v0.1.0-dev"
