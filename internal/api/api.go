package api

// API bundles the resource wrappers over one shared session.
type API struct {
	client     *Client
	authClient *Client

	Auth     *AuthAPI
	Account  *AccountAPI
	Sources  *SourcesAPI
	Jobs     *JobsAPI
	Clients  *ClientsAPI
	Teams    *TeamsAPI
	Domains  *DomainsAPI
	Branding *BrandingAPI
	System   *SystemAPI
}

// New builds the auth client and the refreshing resource client from opts and wires the wrappers to them.
func New(opts Options) *API {
	authClient := NewAuthClient(opts)
	opts.Session = authClient.session
	opts.Logger = authClient.logger
	opts.HTTPClient = authClient.httpClient

	auth := &AuthAPI{client: authClient}
	client := NewClient(opts, auth)

	return &API{
		client:     client,
		authClient: authClient,
		Auth:       auth,
		Account:    &AccountAPI{client: client},
		Sources:    &SourcesAPI{client: client},
		Jobs:       &JobsAPI{client: client},
		Clients:    &ClientsAPI{client: client},
		Teams:      &TeamsAPI{client: client},
		Domains:    &DomainsAPI{client: client},
		Branding:   &BrandingAPI{client: client},
		System:     &SystemAPI{client: client},
	}
}

// Client returns the refreshing resource client, for raw requests.
func (a *API) Client() *Client { return a.client }
