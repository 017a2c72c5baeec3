package wildfire

import "strconv"

// Verdict is a WildFire verdict code.
type Verdict int

const (
	VerdictBenign   Verdict = 0
	VerdictMalware  Verdict = 1
	VerdictGrayware Verdict = 2
	VerdictPhishing Verdict = 4
	VerdictC2       Verdict = 5
	VerdictPending  Verdict = -100
	VerdictError    Verdict = -101
	VerdictUnknown  Verdict = -102
	VerdictInvalid  Verdict = -103
)

type verdictInfo struct {
	name string
	note string
}

var verdicts = map[Verdict]verdictInfo{
	VerdictBenign:   {name: "benign"},
	VerdictMalware:  {name: "malware"},
	VerdictGrayware: {name: "grayware"},
	VerdictPhishing: {name: "phishing"},
	VerdictC2:       {name: "C2", note: "command-and-control"},
	VerdictPending:  {name: "pending", note: "sample exists and verdict not known"},
	VerdictError:    {name: "error", note: "sample is in error state"},
	VerdictUnknown:  {name: "unknown", note: "sample does not exist"},
	VerdictInvalid:  {name: "invalid", note: "hash is invalid"},
}

// LookupVerdict returns the display name and note for a verdict code.
// ok is false for codes WildFire does not define.
func LookupVerdict(code int) (name, note string, ok bool) {
	info, ok := verdicts[Verdict(code)]
	return info.name, info.note, ok
}

// String returns the verdict's display name, or the code for undefined verdicts.
func (v Verdict) String() string {
	if info, ok := verdicts[v]; ok {
		return info.name
	}
	return strconv.Itoa(int(v))
}

// Note returns the human-readable note, empty when the verdict has none.
func (v Verdict) Note() string {
	return verdicts[v].note
}

// Valid reports whether v is a defined verdict code.
func (v Verdict) Valid() bool {
	_, ok := verdicts[v]
	return ok
}

// ReportRequest selects a report by sample hash or URL.
type ReportRequest struct {
	Hash string
	// Format is the report format, "xml" or "pdf"; empty lets the service choose.
	Format string
	URL    string
}

// VerdictRequest selects a verdict by sample hash or URL.
type VerdictRequest struct {
	Hash string
	URL  string
}

// PCAPRequest selects a packet capture.
type PCAPRequest struct {
	Hash string
	// Platform is the analysis environment id; empty lets the service choose.
	Platform string
}

// SubmitRequest describes a submission. Exactly one of File, URL or Links
// must be set.
type SubmitRequest struct {
	// File is the path of a file to upload; it is read whole into memory.
	File  string
	URL   string
	Links []string
}

// ChangeRequest asks WildFire to review a verdict.
type ChangeRequest struct {
	Hash    string
	Verdict *Verdict
	Email   string
	Comment string
}
