package featured

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reSeasonEpisode = regexp.MustCompile(`(?i)\bS?(\d{1,2})[xE](\d{1,2})\b`)
	reSeasonOnly    = regexp.MustCompile(`(?i)\bS(\d{1,2})\b`)
	reYear          = regexp.MustCompile(`\b(19|20)\d{2}\b`)

	// Tokens that mark the tail of a scene release name. Everything from
	// the first stop token on is quality/codec noise, not title.
	stopTokens = map[string]struct{}{
		"2160p": {}, "1080p": {}, "720p": {}, "480p": {},
		"4k": {}, "8k": {}, "uhd": {},
		"web": {}, "webrip": {}, "web-dl": {}, "webdl": {}, "hdtv": {},
		"bluray": {}, "blu-ray": {}, "bdrip": {}, "brrip": {}, "dvdrip": {},
		"x264": {}, "x265": {}, "h264": {}, "h265": {}, "hevc": {}, "av1": {},
		"aac": {}, "ac3": {}, "dts": {}, "truehd": {}, "atmos": {},
		"hdr": {}, "hdr10": {}, "hdr10+": {}, "dv": {}, "sdr": {},
		"remux": {}, "proper": {}, "repack": {}, "internal": {},
		"multi": {}, "dual": {}, "dubbed": {}, "10bit": {}, "imax": {},
	}
)

// ParsedTitle is what a raw release name yields for metadata lookups.
type ParsedTitle struct {
	Title  string
	Year   int
	Season int
}

// ParseReleaseTitle normalizes a scene release name ("Some.Movie.2021.
// 1080p.WEB-DL.x264-GROUP") into a clean title plus whatever year and
// season signals it carried.
func ParseReleaseTitle(raw string) ParsedTitle {
	parsed := ParsedTitle{}

	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return parsed
	}

	// Scene names separate words with dots or underscores.
	candidate = strings.NewReplacer(".", " ", "_", " ").Replace(candidate)

	// Release group suffix ("-GROUP") on the last token.
	if idx := strings.LastIndex(candidate, "-"); idx > 0 && !strings.ContainsAny(candidate[idx:], " ") {
		candidate = candidate[:idx]
	}

	if match := reSeasonEpisode.FindStringSubmatch(candidate); len(match) == 3 {
		if season, err := strconv.Atoi(match[1]); err == nil && season > 0 {
			parsed.Season = season
		}
		candidate = removeSubstring(candidate, match[0])
	} else if match := reSeasonOnly.FindStringSubmatch(candidate); len(match) == 2 {
		if season, err := strconv.Atoi(match[1]); err == nil && season > 0 {
			parsed.Season = season
		}
		candidate = removeSubstring(candidate, match[0])
	}

	if match := reYear.FindString(candidate); match != "" {
		if yr, err := strconv.Atoi(match); err == nil && yr > 1900 && yr < 2100 {
			parsed.Year = yr
			candidate = removeSubstring(candidate, match)
		}
	}

	tokens := strings.Fields(candidate)
	filtered := make([]string, 0, len(tokens))
	for _, token := range tokens {
		normalized := strings.Trim(token, "-_.()[]{}")
		key := strings.ToLower(normalized)
		if key == "" {
			continue
		}
		if _, stop := stopTokens[key]; stop {
			// Anything after a quality token is codec/source noise.
			break
		}
		filtered = append(filtered, normalized)
	}

	parsed.Title = strings.TrimSpace(strings.Join(filtered, " "))
	if parsed.Title == "" {
		parsed.Title = strings.TrimSpace(raw)
	}
	return parsed
}

func removeSubstring(input, toRemove string) string {
	index := strings.Index(strings.ToLower(input), strings.ToLower(toRemove))
	if index == -1 {
		return input
	}
	removed := input[:index] + " " + input[index+len(toRemove):]
	return strings.Join(strings.Fields(removed), " ")
}
