package firewall

import (
	"github.com/google/nftables/binaryutil"
	"github.com/google/nftables/expr"
)

func expressions(sets ...[]expr.Any) []expr.Any {
	var exprs []expr.Any
	for _, s := range sets {
		exprs = append(exprs, s...)
	}
	return exprs
}

func incomingInterface(iface string) []expr.Any {
	return []expr.Any{
		&expr.Meta{Key: expr.MetaKeyIIFNAME, Register: 1},
		&expr.Cmp{
			Op:       expr.CmpOpEq,
			Register: 1,
			Data:     ifname(iface),
		},
	}
}

func connectionEstablished() []expr.Any {
	return []expr.Any{
		&expr.Ct{Key: expr.CtKeySTATE, Register: 1},
		&expr.Bitwise{
			SourceRegister: 1,
			DestRegister:   1,
			Len:            4,
			Mask:           binaryutil.NativeEndian.PutUint32(expr.CtStateBitESTABLISHED | expr.CtStateBitRELATED),
			Xor:            binaryutil.NativeEndian.PutUint32(0),
		},
		&expr.Cmp{
			Op:       expr.CmpOpNeq,
			Register: 1,
			Data:     binaryutil.NativeEndian.PutUint32(0),
		},
	}
}

func accept() []expr.Any {
	return []expr.Any{
		&expr.Verdict{Kind: expr.VerdictAccept},
	}
}

// ifname returns the interface name in the fixed-width null-padded form the
// kernel compares against.
func ifname(name string) []byte {
	b := make([]byte, 16)
	copy(b, name)
	return b
}
