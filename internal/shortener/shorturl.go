package shortener

// Alphabet is the set of symbols a Code is drawn from.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// DefaultCodeLength is the length of generated codes.
const DefaultCodeLength = 5

// Code represents a short URL code.
type Code string

// ShortLink binds a code to the URL it was created for.
type ShortLink struct {
	Code        Code
	OriginalURL string
}

// Codes converts raw identifiers into codes, dropping blanks and duplicates.
func Codes(raw []string) []Code {
	seen := make(map[string]struct{}, len(raw))
	codes := make([]Code, 0, len(raw))

	for _, r := range raw {
		if r == "" {
			continue
		}

		if _, ok := seen[r]; ok {
			continue
		}

		seen[r] = struct{}{}
		codes = append(codes, Code(r))
	}

	return codes
}

// Strings converts codes back into plain strings.
func Strings(codes []Code) []string {
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = string(c)
	}

	return out
}
