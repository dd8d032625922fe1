package blacklist

// Verdict is the final decision for one IP address. Source names the
// provider that triggered the block and is empty when Blocked is false;
// Confidence is 0-100 and 0 for clean verdicts.
type Verdict struct {
	Blocked    bool   `json:"blocked"`
	Source     string `json:"source,omitempty"`
	Confidence int    `json:"confidence"`
}
