package a

// Card pays from a stored card.
type Card struct {
	Number string `json:"number"`
}

func (Card) DiscriminatorValue() string { return "card" }

// Wire pays by bank transfer.
type Wire struct {
	IBAN string `json:"iban"`
}

func (Wire) DiscriminatorValue() string { return "wire" }

// LegacyCard reuses a discriminator value already claimed by Card.
type LegacyCard struct {
	Number string `json:"number"`
}

func (LegacyCard) DiscriminatorValue() string { return "card" } // want "duplicate discriminator value"

// A well-formed union with distinct values reports nothing.

//tagson:union variants=Card,Wire
type Payment interface{ isPayment() }

func (Card) isPayment() {}
func (Wire) isPayment() {}

// Both listed variants resolve to the explicit value "card".

//tagson:union variants=Card,LegacyCard
type Settlement interface{ isSettlement() } // want "duplicate discriminator value"

func (Card) isSettlement()       {}
func (LegacyCard) isSettlement() {}

// Credit's explicit value collides with Refund's derived short name after
// case folding.

type Credit struct {
	Amount int `json:"amount"`
}

func (Credit) DiscriminatorValue() string { return "refund" }

type Refund struct {
	Amount int `json:"amount"`
}

//tagson:union variants=Credit,Refund
type Adjustment interface{ isAdjustment() } // want "duplicate discriminator value"

func (Credit) isAdjustment() {}
func (Refund) isAdjustment() {}

// Malformed directives.

//tagson:union variants=Card mode=loose
type Invoice interface{ isInvoice() } // want "unknown directive key"

//tagson:union naming=short
type Receipt interface{ isReceipt() } // want "directive has no variants"

type (
	//tagson:union variants=
	Ledger interface{ isLedger() } // want "directive has no variants"
)

// A mention of tagson:union in prose is not a directive.
type Note struct{}

//tagson:unionized variants=Card
type Statement interface{ isStatement() }

func buildPayment() Payment { return Card{} }
