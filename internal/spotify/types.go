package spotify

// Artist is a catalog artist identity.
type Artist struct {
	ID   string
	Name string
}

// Track is a catalog track as returned by track search.
type Track struct {
	ID          string
	Name        string
	AlbumName   string
	ExternalURL string // open.spotify.com link
}

// TrackPage is one page of a track search.
type TrackPage struct {
	Items []Track
	Total int // Total matches reported by the catalog, not len(Items)
}

// LookupStatus is the outcome of a best-effort artist lookup.
type LookupStatus int

const (
	// LookupFound means the artist exists.
	LookupFound LookupStatus = iota
	// LookupNotFound means the catalog answered 404.
	LookupNotFound
	// LookupFailed means the lookup errored for any other reason.
	LookupFailed
)

func (s LookupStatus) String() string {
	switch s {
	case LookupFound:
		return "found"
	case LookupNotFound:
		return "not_found"
	case LookupFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ArtistLookup is the result of FetchArtistByID.
// Artist is set only for LookupFound; Err only for the other statuses.
type ArtistLookup struct {
	Artist Artist
	Status LookupStatus
	Err    error
}

// Found reports whether the lookup produced an artist.
func (l ArtistLookup) Found() bool {
	return l.Status == LookupFound
}
