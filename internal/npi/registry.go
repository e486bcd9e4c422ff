// Package npi queries the NPPES NPI Registry to enrich resolved payment
// profiles and to suggest registry entries for people with no payment rows.
package npi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultBaseURL is the public NPPES API endpoint.
const DefaultBaseURL = "https://npiregistry.cms.hhs.gov/api/"

// ProviderInfo holds the registry details attached to a report.
type ProviderInfo struct {
	NPI             int64  `json:"npi"`
	Name            string `json:"name"` // "LAST, FIRST MIDDLE"
	Credential      string `json:"credential,omitempty"`
	Type            string `json:"type"`
	PrimaryTaxonomy string `json:"primary_taxonomy,omitempty"`
	TaxonomyCode    string `json:"taxonomy_code,omitempty"`
	PracticeAddress string `json:"practice_address,omitempty"`
	PracticePhone   string `json:"practice_phone,omitempty"`
	Status          string `json:"status,omitempty"`
}

// Client talks to the registry. The zero value is not usable; use NewClient.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	// Concurrency bounds LookupAll.
	Concurrency int
}

// NewClient returns a client for the public registry.
func NewClient() *Client {
	return &Client{
		BaseURL:     DefaultBaseURL,
		HTTP:        &http.Client{Timeout: 10 * time.Second},
		Concurrency: 8,
	}
}

type apiResponse struct {
	ResultCount int         `json:"result_count"`
	Results     []apiResult `json:"results"`
}

type apiResult struct {
	Number          string        `json:"number"`
	EnumerationType string        `json:"enumeration_type"`
	Basic           apiBasic      `json:"basic"`
	Addresses       []apiAddress  `json:"addresses"`
	Taxonomies      []apiTaxonomy `json:"taxonomies"`
}

type apiBasic struct {
	FirstName        string `json:"first_name"`
	MiddleName       string `json:"middle_name"`
	LastName         string `json:"last_name"`
	Credential       string `json:"credential"`
	OrganizationName string `json:"organization_name"`
	Status           string `json:"status"`
}

type apiAddress struct {
	City           string `json:"city"`
	State          string `json:"state"`
	PostalCode     string `json:"postal_code"`
	AddressPurpose string `json:"address_purpose"`
	Phone          string `json:"telephone_number"`
}

type apiTaxonomy struct {
	Code    string `json:"code"`
	Desc    string `json:"desc"`
	Primary bool   `json:"primary"`
}

func (c *Client) query(ctx context.Context, params url.Values) ([]*ProviderInfo, error) {
	params.Set("version", "2.1")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying NPI registry: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("NPI registry returned HTTP %d", resp.StatusCode)
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("parsing NPI registry response: %w", err)
	}

	out := make([]*ProviderInfo, 0, len(apiResp.Results))
	for _, r := range apiResp.Results {
		out = append(out, resultToProviderInfo(r))
	}
	return out, nil
}

// Lookup fetches one NPI. It returns nil, nil when the registry has no entry.
func (c *Client) Lookup(ctx context.Context, number int64) (*ProviderInfo, error) {
	infos, err := c.query(ctx, url.Values{"number": {strconv.FormatInt(number, 10)}})
	if err != nil || len(infos) == 0 {
		return nil, err
	}
	return infos[0], nil
}

// SearchByName finds up to 20 individual providers by name. state, a
// two-letter code, is optional.
func (c *Client) SearchByName(ctx context.Context, firstName, lastName, state string) ([]*ProviderInfo, error) {
	params := url.Values{
		"enumeration_type": {"NPI-1"},
		"limit":            {"20"},
		"first_name":       {firstName},
		"last_name":        {lastName},
	}
	if state != "" {
		params.Set("state", state)
	}
	return c.query(ctx, params)
}

// LookupAll fetches many NPIs with bounded concurrency. Results and errors
// are in input order; unknown NPIs have nil entries.
func (c *Client) LookupAll(ctx context.Context, npis []int64) ([]*ProviderInfo, []error) {
	results := make([]*ProviderInfo, len(npis))
	errs := make([]error, len(npis))

	n := c.Concurrency
	if n < 1 {
		n = 1
	}
	sem := make(chan struct{}, n)
	var wg sync.WaitGroup
	for i, number := range npis {
		wg.Add(1)
		go func(idx int, number int64) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				errs[idx] = ctx.Err()
				return
			}
			defer func() { <-sem }()
			results[idx], errs[idx] = c.Lookup(ctx, number)
		}(i, number)
	}
	wg.Wait()
	return results, errs
}

func resultToProviderInfo(r apiResult) *ProviderInfo {
	number, _ := strconv.ParseInt(r.Number, 10, 64)
	info := &ProviderInfo{NPI: number, Status: r.Basic.Status}

	if r.EnumerationType == "NPI-1" {
		info.Type = "Individual"
		info.Name = formatIndividualName(r.Basic)
		info.Credential = cleanField(r.Basic.Credential)
	} else {
		info.Type = "Organization"
		info.Name = r.Basic.OrganizationName
	}

	for _, t := range r.Taxonomies {
		if t.Primary {
			info.PrimaryTaxonomy, info.TaxonomyCode = t.Desc, t.Code
			break
		}
	}
	if info.PrimaryTaxonomy == "" && len(r.Taxonomies) > 0 {
		info.PrimaryTaxonomy, info.TaxonomyCode = r.Taxonomies[0].Desc, r.Taxonomies[0].Code
	}

	for _, addr := range r.Addresses {
		if addr.AddressPurpose == "LOCATION" {
			info.PracticeAddress, info.PracticePhone = formatAddress(addr), formatPhone(addr.Phone)
			break
		}
	}
	if info.PracticeAddress == "" && len(r.Addresses) > 0 {
		info.PracticeAddress, info.PracticePhone = formatAddress(r.Addresses[0]), formatPhone(r.Addresses[0].Phone)
	}
	return info
}

func formatIndividualName(b apiBasic) string {
	name := cleanField(b.LastName)
	if first := cleanField(b.FirstName); first != "" {
		name += ", " + first
	}
	if middle := cleanField(b.MiddleName); middle != "" {
		name += " " + middle
	}
	return name
}

func formatAddress(a apiAddress) string {
	var parts []string
	if a.City != "" {
		parts = append(parts, a.City)
	}
	if a.State != "" {
		parts = append(parts, a.State)
	}
	loc := strings.Join(parts, ", ")
	if zip := a.PostalCode; zip != "" {
		if len(zip) > 5 {
			zip = zip[:5]
		}
		loc += " " + zip
	}
	return loc
}

func formatPhone(phone string) string {
	p := strings.TrimSpace(strings.ReplaceAll(phone, "-", ""))
	if len(p) == 10 {
		return fmt.Sprintf("(%s) %s-%s", p[:3], p[3:6], p[6:])
	}
	return phone
}

// cleanField treats the registry's "--" placeholder as empty.
func cleanField(s string) string {
	s = strings.TrimSpace(s)
	if s == "--" {
		return ""
	}
	return s
}
