package api

import "net/http"

// StatusUnsupportedFileType is returned by WildFire for samples it cannot analyze.
const StatusUnsupportedFileType = 418

var wildfireStatusText = map[int]string{
	StatusUnsupportedFileType: "Unsupported File Type",
}

// StatusText returns the reason phrase for code, preferring WildFire's own
// meaning over the IANA registry.
func StatusText(code int) string {
	if text, ok := wildfireStatusText[code]; ok {
		return text
	}
	return http.StatusText(code)
}
