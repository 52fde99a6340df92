package handlers

// CreateLinkRequest is the request for creating a short link.
type CreateLinkRequest struct {
	URL string `doc:"The URL to shorten, stored exactly as given" example:"https://example.com/very/long/path" query:"url"`
}

// CreateLinkResponse is the response for a successfully created short link.
type CreateLinkResponse struct {
	Body struct {
		ID string `doc:"The short code" example:"aB3kX" json:"id"`
	}
}

// ResolveRequest is the request for resolving a short code.
type ResolveRequest struct {
	ID string `doc:"The short code" example:"aB3kX" path:"id"`
}

// ResolveResponse carries the URL bound to a code.
type ResolveResponse struct {
	Body struct {
		OriginalURL string `doc:"The original URL" example:"https://example.com/very/long/path" json:"originalUrl"`
	}
}

// RemoveRequest lists codes to delete.
type RemoveRequest struct {
	Body []string `doc:"Codes to delete" example:"[\"aB3kX\"]"`
}

// RemoveResponse reports which codes were deleted. Status is 200 when every code was deleted
// and 207 when only some were.
type RemoveResponse struct {
	Status int
	Body   struct {
		Deleted []string `doc:"Codes deleted from the store"        json:"deleted"`
		Failed  []string `doc:"Codes whose deletion failed, if any" json:"failed"`
	}
}
