package parliament

import (
	"fmt"
	"strings"
)

// Collection endpoints fed to FetchPage
const (
	EndpointBallots = "/votes/ballots/"
	EndpointVotes   = "/votes/"
	EndpointBills   = "/bills/"
)

// BallotFilters builds the ballot listing filter set; zero-value fields
// are omitted so the same helper serves all three pipeline entry points
func BallotFilters(politicianSlug, voteURL string) map[string]string {
	f := map[string]string{}
	if politicianSlug != "" {
		f["politician"] = politicianSlug
	}
	if voteURL != "" {
		f["vote"] = voteURL
	}
	return f
}

// VotesSince filters the vote listing to sessions on or after a date (YYYY-MM-DD)
func VotesSince(date string) map[string]string {
	if date == "" {
		return map[string]string{}
	}
	return map[string]string{"date__gte": date}
}

// BillsInSession filters the bill listing to one session ("45-1" style)
func BillsInSession(session string) map[string]string {
	if session == "" {
		return map[string]string{}
	}
	return map[string]string{"session": session}
}

// VotePath builds the vote detail path for a session and vote number
func VotePath(session string, number int) string {
	return fmt.Sprintf("/votes/%s/%d/", session, number)
}

// BillPath builds the bill detail path for a session and bill number
func BillPath(session, number string) string {
	return fmt.Sprintf("/bills/%s/%s/", session, number)
}

// PoliticianPath builds the politician detail path from a slug
func PoliticianPath(slug string) string {
	return "/politicians/" + strings.Trim(slug, "/") + "/"
}

// SlugFromURL extracts the trailing identifier from a feed resource URL
// like /politicians/pat-martin/ -> pat-martin
func SlugFromURL(u string) string {
	parts := strings.Split(strings.Trim(u, "/"), "/")
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

// BillRef splits a bill resource URL like /bills/45-1/C-10/ into its
// session and number parts; ok is false for anything else
func BillRef(u string) (session, number string, ok bool) {
	parts := strings.Split(strings.Trim(u, "/"), "/")
	if len(parts) != 3 || parts[0] != "bills" {
		return "", "", false
	}
	return parts[1], parts[2], true
}
