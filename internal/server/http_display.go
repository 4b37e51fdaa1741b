package server

import (
	"fmt"
	"io"
	"os"
)

// displayServerInfo prints the endpoint list and protection settings.
func (s *Server) displayServerInfo() {
	s.writeServerInfo(os.Stdout)
}

func (s *Server) writeServerInfo(w io.Writer) {
	fmt.Fprintln(w, "Available endpoints:")
	fmt.Fprintln(w, "  GET  /health          - Health check")
	fmt.Fprintln(w, "  GET  /stats           - Server and analysis statistics")
	fmt.Fprintln(w, "  POST /analyze         - Analyze a resume (JSON or multipart upload)")
	fmt.Fprintln(w, "  GET  /roles           - List target roles (?category=)")
	fmt.Fprintln(w, "  GET  /analyses        - List stored analyses (?limit=)")
	fmt.Fprintln(w, "  GET  /analyses/{id}   - Fetch a stored analysis")

	if len(s.APIKeys) > 0 {
		fmt.Fprintf(w, "API authentication: ENABLED (%d keys configured)\n", len(s.APIKeys))
	} else {
		fmt.Fprintln(w, "API authentication: DISABLED (no API keys configured)")
	}

	if s.MaxRequestSize > 0 {
		fmt.Fprintf(w, "Request size limit: %d bytes (%.1f MB)\n", s.MaxRequestSize, float64(s.MaxRequestSize)/(1024*1024))
	} else {
		fmt.Fprintln(w, "Request size limit: DISABLED")
	}

	if s.RateLimit != nil && s.RateLimit.Enabled {
		fmt.Fprintf(w, "Rate limiting: ENABLED (%d requests/min, burst: %d)\n",
			s.RateLimit.RequestsPerMin, s.RateLimit.BurstCapacity)
	} else {
		fmt.Fprintln(w, "Rate limiting: DISABLED")
	}
}
