package parliament

import json "github.com/goccy/go-json"

// Envelope is the listing page shape shared by every collection endpoint
type Envelope struct {
	Objects    []json.RawMessage `json:"objects"`
	Pagination *Pagination       `json:"pagination"`
}

// Pagination carries the source's next/previous page links
type Pagination struct {
	Offset      int     `json:"offset"`
	Limit       int     `json:"limit"`
	NextURL     *string `json:"next_url"`
	PreviousURL *string `json:"previous_url"`
}

// LangText is the feed's bilingual text wrapper; we read the English form
type LangText struct {
	En string `json:"en"`
}

// Ballot is one legislator's recorded position on one vote
type Ballot struct {
	BallotValue   string `json:"ballot"`
	PoliticianURL string `json:"politician_url"`
	VoteURL       string `json:"vote_url"`
}

// PartyRef names a party inside a per-party tally
type PartyRef struct {
	Name      LangText `json:"name"`
	ShortName LangText `json:"short_name"`
}

// PartyVote is a party's collective stance on a vote
type PartyVote struct {
	Vote  string   `json:"vote"`
	Party PartyRef `json:"party"`
}

// Vote is the vote detail payload
type Vote struct {
	URL         string      `json:"url"`
	Session     string      `json:"session"`
	Number      int         `json:"number"`
	Date        string      `json:"date"`
	Result      string      `json:"result"`
	Description LangText    `json:"description"`
	BillURL     *string     `json:"bill_url"`
	PartyVotes  []PartyVote `json:"party_votes"`
	BallotsURL  string      `json:"ballots_url"`
}

// Bill is the bill detail payload
type Bill struct {
	URL                  string   `json:"url"`
	Session              string   `json:"session"`
	Number               string   `json:"number"`
	LegisinfoID          *int64   `json:"legisinfo_id"`
	Name                 LangText `json:"name"`
	Introduced           string   `json:"introduced"`
	SponsorPoliticianURL *string  `json:"sponsor_politician_url"`
	Law                  bool     `json:"law"`
	PrivateMemberBill    bool     `json:"private_member_bill"`
	StatusCode           string   `json:"status_code"`
	Status               LangText `json:"status"`
}

// Membership is one party affiliation period for a politician
type Membership struct {
	Party     PartyRef `json:"party"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
}

// Politician is the politician detail payload; memberships carry the
// party for a given time period
type Politician struct {
	URL         string       `json:"url"`
	Name        string       `json:"name"`
	Memberships []Membership `json:"memberships"`
}
