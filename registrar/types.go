package registrar

import "time"

// JobStatus is the lifecycle state of a provisioning job. The remote
// service owns the transitions; the client only observes them.
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// Terminal reports whether the status ends the job's lifecycle.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// Job is a server-tracked asynchronous unit of work, e.g. a domain
// registration being provisioned.
type Job struct {
	ID        string         `json:"jobId"`
	Status    JobStatus      `json:"status"`
	Domain    string         `json:"domain"`
	Result    map[string]any `json:"result,omitempty"`
	Error     string         `json:"error,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// Availability is the result of a single-domain availability check.
type Availability struct {
	Domain    string `json:"domain"`
	Available bool   `json:"available"`
	Premium   bool   `json:"premium"`
	Price     string `json:"price,omitempty"`
}

// SearchResult is one entry of a domain search.
type SearchResult struct {
	Domain    string `json:"domain"`
	Available bool   `json:"available"`
	Price     string `json:"price,omitempty"`
}

// Domain describes a registered domain owned by the authenticated account.
type Domain struct {
	Name         string    `json:"name"`
	Status       string    `json:"status"`
	RegisteredAt time.Time `json:"registeredAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
	AutoRenew    bool      `json:"autoRenew"`
	Nameservers  []string  `json:"nameservers,omitempty"`
}

// DNSRecord is a single DNS record of a managed domain.
type DNSRecord struct {
	ID       string `json:"id,omitempty"`
	Type     string `json:"type"`
	Name     string `json:"name"`
	Content  string `json:"content"`
	TTL      int    `json:"ttl,omitempty"`
	Priority int    `json:"priority,omitempty"`
}

// Account describes the authenticated wallet's account state.
type Account struct {
	Address     string    `json:"address"`
	Balance     string    `json:"balance"`
	DomainCount int       `json:"domainCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Wire payloads of the auth endpoints.

type nonceResponse struct {
	Nonce   string `json:"nonce"`
	Domain  string `json:"domain"`
	URI     string `json:"uri"`
	ChainID string `json:"chainId"`
}

type verifyRequest struct {
	Message   string `json:"message"`
	Signature string `json:"signature"`
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Wire payloads of the domain operations.

type searchResponse struct {
	Results []SearchResult `json:"results"`
}

type domainsResponse struct {
	Domains []Domain `json:"domains"`
}

type recordsResponse struct {
	Records []DNSRecord `json:"records"`
}

type registerRequest struct {
	Domain string `json:"domain"`
	Years  int    `json:"years"`
}

type registerResponse struct {
	JobID  string    `json:"jobId"`
	Status JobStatus `json:"status"`
}
