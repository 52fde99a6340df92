package shortener

// Status tags the outcome of a resolve.
type Status int

const (
	StatusFound Status = iota + 1
	StatusNotFound
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNotFound:
		return "not_found"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Resolution is the result of resolving a code. Exactly one of URL or Err is meaningful,
// depending on Status.
type Resolution struct {
	Status Status
	URL    string
	Err    error
}

func Found(url string) Resolution {
	return Resolution{Status: StatusFound, URL: url}
}

func NotFound() Resolution {
	return Resolution{Status: StatusNotFound}
}

func Failed(err error) Resolution {
	return Resolution{Status: StatusFailed, Err: err}
}
