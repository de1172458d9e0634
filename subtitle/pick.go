package subtitle

import "golang.org/x/text/language"

// PickTrack returns the index of the track whose language best matches preferred.
// The first track is the fallback when nothing matches; -1 means there are no tracks.
func PickTrack(tracks []Track, preferred string) int {
	if len(tracks) == 0 {
		return -1
	}

	want, err := language.Parse(preferred)
	if err != nil {
		return 0
	}

	supported := make([]language.Tag, len(tracks))
	for i, track := range tracks {
		tag, err := language.Parse(track.Language)
		if err != nil {
			tag = language.Und
		}
		supported[i] = tag
	}

	_, index, confidence := language.NewMatcher(supported).Match(want)
	if confidence == language.No {
		return 0
	}

	return index
}
