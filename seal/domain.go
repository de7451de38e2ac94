package seal

// Domain is a closed enumeration of signing-context prefixes. Every
// signature is computed over domain||cid so that a signature produced for
// one subsystem can never be replayed as valid in another.
type Domain string

const (
	DomainFrame Domain = "SIRP:FRAME:v1"
	DomainLedger Domain = "UBL:LEDGER:v1"
	DomainProof  Domain = "TDLN:PROOF:v1"
)

func (d Domain) valid() bool {
	switch d {
	case DomainFrame, DomainLedger, DomainProof:
		return true
	default:
		return false
	}
}
