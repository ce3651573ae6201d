package enums

type ListingKind string

const (
	KindTrade ListingKind = "trade"
	KindLook  ListingKind = "lf"
)

func (k ListingKind) Valid() bool {
	return k == KindTrade || k == KindLook
}
