package dataset

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/K0NGR3SS/fraudprobe/internal/lexicon"
	"github.com/K0NGR3SS/fraudprobe/internal/models"
)

var (
	markerRe  = regexp.MustCompile(`#+.*?#+`)
	speakerRe = regexp.MustCompile(`\*\*.*?\*\*:`)
	spaceRe   = regexp.MustCompile(`\s+`)
)

// ParseDialog flattens an annotated dialogue to a single line: #markers# are
// dropped, **speaker**: tags become spaces and whitespace runs collapse.
func ParseDialog(text string) string {
	text = norm.NFC.String(text)
	text = markerRe.ReplaceAllString(text, "")
	text = speakerRe.ReplaceAllString(text, " ")
	text = spaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// ExtractLabel infers a label from keyword counts: fraud when at least one
// fraud keyword is present and fraud keywords outnumber normal ones (or no
// normal keyword appears).
func ExtractLabel(lex lexicon.DatasetLexicon, text string) models.Label {
	text = strings.ToLower(text)
	fraud := countPresent(text, lex.LabelFraudKeywords)
	normal := countPresent(text, lex.LabelNormalKeywords)
	if fraud > 0 && (fraud > normal || normal == 0) {
		return models.LabelFraud
	}
	return models.LabelNormal
}

func countPresent(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			n++
		}
	}
	return n
}

var labelNames = map[string]models.Label{
	"0":   models.LabelNormal,
	"1":   models.LabelFraud,
	"正常":  models.LabelNormal,
	"非欺诈": models.LabelNormal,
	"欺诈":  models.LabelFraud,
	"诈骗":  models.LabelFraud,
}

// parseLabel resolves a label column value. Unknown values fall back to
// keyword inference over raw.
func parseLabel(lex lexicon.DatasetLexicon, value, raw string) models.Label {
	if l, ok := labelNames[strings.TrimSpace(value)]; ok {
		return l
	}
	return ExtractLabel(lex, raw)
}
