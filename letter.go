package georgievi

import (
	ingestuc "github.com/Bestroi150/georgievi-network/internal/usecase/ingest"
)

// Place is a place mention, optionally georeferenced.
type Place struct {
	Name string
	Lat  *float64
	Lon  *float64
	Ref  string
}

// Letter is a correspondence record as supplied to Load. ID, Sender and
// Addressee are required. Date accepts "02.01.2006", "02/01/2006",
// "2006-01-02" and "02-01-2006"; an empty date keeps the record out of
// temporal views.
type Letter struct {
	ID               string
	Sender           string
	Addressee        string
	Date             string
	Origin           string
	Destination      string
	MentionedPlaces  []Place
	MentionedPersons []string
	Topics           []string
	Keywords         []string
	Content          string
}

// Report summarizes an accepted batch.
type Report struct {
	Loaded      int
	Dated       int
	Partitioned int
}

func (l Letter) toRaw() ingestuc.RawLetter {
	places := make([]ingestuc.RawPlace, len(l.MentionedPlaces))
	for i, p := range l.MentionedPlaces {
		places[i] = ingestuc.RawPlace{Name: p.Name, Lat: p.Lat, Lon: p.Lon, Ref: p.Ref}
	}
	return ingestuc.RawLetter{
		ID:               l.ID,
		Sender:           l.Sender,
		Addressee:        l.Addressee,
		Date:             l.Date,
		Origin:           l.Origin,
		Destination:      l.Destination,
		MentionedPlaces:  places,
		MentionedPersons: l.MentionedPersons,
		MainTopics:       l.Topics,
		Keywords:         l.Keywords,
		Content:          l.Content,
	}
}
