// Package keywords provides the builtin keyword list, keyword list files and
// validation of user supplied keyword input.
package keywords

var defaultKeywords = [...]string{
	"activism", "activists", "advocacy", "advocate", "advocates", "barrier", "barriers",
	"bias", "biased", "biases", "bipoc", "black", "latinx", "community diversity",
	"community equity", "cultural differences", "cultural heritage", "culturally responsive",
	"disabilities", "disability", "discriminated", "discrimination", "discriminatory",
	"diverse backgrounds", "diverse communities", "diverse community", "diverse group",
	"diverse groups", "diversified", "diversify", "diversifying", "diversity", "diversity and inclusion",
	"diversity equity", "enhance the diversity", "enhancing diversity", "equal opportunity",
	"equality", "equitable", "equity", "ethnicity", "excluded", "female", "fostering inclusivity",
	"gender", "gender diversity", "genders", "hate speech", "hispanic minority", "historically",
	"implicit bias", "implicit biases", "inclusion", "inclusive", "inclusiveness", "inclusivity",
	"increase diversity", "increase the diversity", "indigenous community", "inequalities",
	"inequality", "inequitable", "institutional", "lgbt", "marginalize", "marginalized",
	"minorities", "minority", "multicultural", "polarization", "political", "prejudice", "privileges",
	"promoting diversity", "race and ethnicity", "racial", "racial diversity", "racial inequality",
	"racial justice", "racially", "racism", "sense of belonging", "sexual preferences",
	"social justice", "socio-cultural", "socio-economic", "sociocultural", "socioeconomic",
	"status", "stereotypes", "systemic", "trauma", "under-appreciated", "under-represented",
	"under-served", "underrepresentation", "underrepresented", "underserved", "undervalued",
	"victim", "women", "women and underrepresented",
}

// Default returns a fresh copy of the builtin keyword list.
func Default() []string {
	out := make([]string, len(defaultKeywords))
	copy(out, defaultKeywords[:])
	return out
}
