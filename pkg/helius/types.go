package helius

// Enhanced-transaction payload as pushed by webhooks and returned by
// the address history API. Only the fields the classifier reads are
// modeled; everything else in the payload is ignored.

type Transaction struct {
	Signature        string           `json:"signature"`
	Timestamp        int64            `json:"timestamp"`
	Type             string           `json:"type"`
	Source           string           `json:"source"`
	Fee              int64            `json:"fee"`
	FeePayer         string           `json:"feePayer"`
	Description      string           `json:"description"`
	NativeTransfers  []NativeTransfer `json:"nativeTransfers"`
	TokenTransfers   []TokenTransfer  `json:"tokenTransfers"`
	Events           Events           `json:"events"`
	TransactionError interface{}      `json:"transactionError"`
}

type NativeTransfer struct {
	FromUserAccount string `json:"fromUserAccount"`
	ToUserAccount   string `json:"toUserAccount"`
	Amount          int64  `json:"amount"` // lamports
}

type TokenTransfer struct {
	FromUserAccount  string  `json:"fromUserAccount"`
	ToUserAccount    string  `json:"toUserAccount"`
	FromTokenAccount string  `json:"fromTokenAccount"`
	ToTokenAccount   string  `json:"toTokenAccount"`
	Mint             string  `json:"mint"`
	TokenAmount      float64 `json:"tokenAmount"`
	TokenStandard    string  `json:"tokenStandard"`
}

type Events struct {
	Swap *SwapEvent `json:"swap,omitempty"`
}

// SwapEvent is the structured swap description. Native amounts are
// lamport strings; token amounts are raw integers plus decimals.
type SwapEvent struct {
	NativeInput  NativeLeg  `json:"nativeInput"`
	NativeOutput NativeLeg  `json:"nativeOutput"`
	TokenInputs  []TokenLeg `json:"tokenInputs"`
	TokenOutputs []TokenLeg `json:"tokenOutputs"`
}

type NativeLeg struct {
	Account string `json:"account"`
	Amount  string `json:"amount"`
}

type TokenLeg struct {
	UserAccount    string         `json:"userAccount"`
	TokenAccount   string         `json:"tokenAccount"`
	Mint           string         `json:"mint"`
	RawTokenAmount RawTokenAmount `json:"rawTokenAmount"`
}

type RawTokenAmount struct {
	TokenAmount string `json:"tokenAmount"`
	Decimals    int    `json:"decimals"`
}

// TokenMeta is the flattened result of a batch token-metadata lookup.
type TokenMeta struct {
	Mint   string
	Name   string
	Symbol string
	Image  string
}

// Webhook is a registered push subscription (admin API).
type Webhook struct {
	WebhookID        string   `json:"webhookID"`
	WebhookURL       string   `json:"webhookURL"`
	TransactionTypes []string `json:"transactionTypes"`
	AccountAddresses []string `json:"accountAddresses"`
	WebhookType      string   `json:"webhookType"`
}
