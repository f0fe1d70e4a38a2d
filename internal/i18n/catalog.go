package i18n

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Key identifies a fixed reply in the message catalog.
type Key string

const (
	NoTopic         Key = "no_topic"
	NoTopics        Key = "no_topics"
	NoPrev          Key = "no_prev"
	NotLearning     Key = "not_learning"
	AtStart         Key = "at_start"
	QuizStop        Key = "quiz_stop"
	Stopped         Key = "stopped"
	Slower          Key = "slower"
	Faster          Key = "faster"
	NoSimplify      Key = "no_simplify"
	NotLearningCont Key = "not_learning_cont"
	Done            Key = "done"
	NoAudio         Key = "no_audio"
	Error           Key = "error"
	LangChanged     Key = "lang_changed"
)

// Args are the named placeholder values substituted into a catalog entry.
// A placeholder is written as {name}.
type Args map[string]any

var catalog = map[Lang]map[Key]string{
	English: {
		NoTopic:         "Tell me what you'd like to learn. Like: 'Teach me about math'.",
		NoTopics:        "Learn something first, then we can quiz.",
		NoPrev:          "Nothing to repeat.",
		NotLearning:     "Start learning a topic first.",
		AtStart:         "Already at the beginning.",
		QuizStop:        "Quiz stopped. {score}/{total} correct. What's next?",
		Stopped:         "Stopped. What now?",
		Slower:          "Slower. Rate: {rate}x",
		Faster:          "Faster. Rate: {rate}x",
		NoSimplify:      "Nothing to simplify.",
		NotLearningCont: "Not in learning mode. Say 'teach me about [topic]'.",
		Done:            "Done with '{topic}'! Say 'quiz' to test or learn something new.",
		NoAudio:         "Couldn't hear you. Try again.",
		Error:           "Something went wrong. Try again.",
		LangChanged:     "Switched to English.",
	},
	Azerbaijani: {
		NoTopic:         "Nə öyrənmək istəyirsiniz? Məsələn: 'Mənə riyaziyyat öyrət'.",
		NoTopics:        "Əvvəlcə nəsə öyrənin, sonra test edərik.",
		NoPrev:          "Təkrar edəcək heç nə yoxdur.",
		NotLearning:     "Əvvəlcə öyrənməyə başlayın.",
		AtStart:         "Artıq əvvəldəsiniz.",
		QuizStop:        "Test dayandı. {score}/{total} düzgün. Növbəti?",
		Stopped:         "Dayandırıldı. Nə edək?",
		Slower:          "Yavaşladı. Sürət: {rate}x",
		Faster:          "Sürətləndi. Sürət: {rate}x",
		NoSimplify:      "Sadələşdirəcək heç nə yoxdur.",
		NotLearningCont: "Öyrənmə rejimində deyilsiniz.",
		Done:            "'{topic}' bitdi! 'Test' deyin və ya yeni mövzu öyrənin.",
		NoAudio:         "Eşidə bilmədim. Yenidən cəhd edin.",
		Error:           "Xəta baş verdi. Yenidən cəhd edin.",
		LangChanged:     "Azərbaycan dilinə keçildi.",
	},
}

// Message returns the catalog entry for key in lang with args substituted.
// Unknown languages fall back to English; an unknown key returns the key.
func Message(lang Lang, key Key, args Args) string {
	table, ok := catalog[lang]
	if !ok {
		table = catalog[DefaultLang]
	}
	tmpl, ok := table[key]
	if !ok {
		return string(key)
	}
	if len(args) == 0 {
		return tmpl
	}

	// Sorted for a deterministic replacer.
	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, 2*len(args))
	for _, name := range names {
		pairs = append(pairs, "{"+name+"}", formatValue(args[name]))
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// formatValue renders floats with at least one decimal ("1.0", "0.75") so
// rates read the same in every language.
func formatValue(v any) string {
	switch x := v.(type) {
	case float64:
		s := strconv.FormatFloat(x, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	case float32:
		return formatValue(float64(x))
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
