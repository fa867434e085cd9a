package tokenize

// enStopWords covers common English pronouns, determiners, prepositions,
// and auxiliary verbs.
var enStopWords = []string{
	"a", "an", "the", "and", "or", "but", "if", "then", "else", "so",
	"of", "at", "by", "for", "with", "about", "against", "between",
	"into", "through", "during", "before", "after", "above", "below",
	"to", "from", "up", "down", "in", "out", "on", "off", "over", "under",
	"again", "further", "once", "here", "there", "when", "where", "why",
	"how", "all", "any", "both", "each", "few", "more", "most", "other",
	"some", "such", "no", "nor", "not", "only", "own", "same", "than",
	"too", "very", "can", "will", "just", "should", "now",
	"i", "me", "my", "myself", "we", "our", "ours", "ourselves",
	"you", "your", "yours", "yourself", "yourselves",
	"he", "him", "his", "himself", "she", "her", "hers", "herself",
	"it", "its", "itself", "they", "them", "their", "theirs", "themselves",
	"what", "which", "who", "whom", "this", "that", "these", "those",
	"am", "is", "are", "was", "were", "be", "been", "being",
	"have", "has", "had", "having", "do", "does", "did", "doing",
}

// frStopWords covers common French articles, pronouns, prepositions, and
// auxiliary verbs.
var frStopWords = []string{
	"le", "la", "les", "un", "une", "des", "du", "de", "et", "ou", "mais",
	"si", "donc", "or", "ni", "car", "au", "aux", "ce", "ces", "cet",
	"cette", "dans", "par", "pour", "sur", "sous", "entre", "vers", "chez",
	"sans", "avec", "je", "tu", "il", "elle", "nous", "vous", "ils",
	"elles", "on", "me", "te", "se", "lui", "leur", "mon", "ma", "mes",
	"ton", "ta", "tes", "son", "sa", "ses", "notre", "nos", "votre", "vos",
	"leurs", "qui", "que", "quoi", "dont", "ou", "comment", "quand",
	"pourquoi", "est", "sont", "etait", "etaient", "sera", "seront",
	"avoir", "ai", "as", "avons", "avez", "ont", "suis", "es", "sommes",
	"etes", "pas", "plus", "moins", "tres", "tout", "toute", "tous",
	"toutes", "meme", "autre", "autres", "aucun", "aucune",
}

// stopWordSet is the fixed union of the FR+EN stopword lists, built once.
var stopWordSet = BuildStopWordMap(append(append([]string{}, enStopWords...), frStopWords...))
