package main

import (
	"github.com/outofforest/proton"

	"github.com/outofforest/bedrock/pkg/progress/wire"
)

//go:generate go run .

func main() {
	proton.Generate("../types.proton.go",
		wire.MsgStep{},
		wire.MsgLog{},
		wire.MsgResult{},
	)
}
