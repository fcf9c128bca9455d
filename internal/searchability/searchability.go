// Package searchability checks a resume for the contact details and
// sections that applicant tracking systems look for.
package searchability

import (
	"regexp"
	"strings"
)

// Check names, in report order.
const (
	CheckEmail      = "email"
	CheckPhone      = "phone"
	CheckAddress    = "address"
	CheckSummary    = "summary"
	CheckEducation  = "education"
	CheckExperience = "experience"
)

var (
	emailRe = regexp.MustCompile(`(?i)[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}`)
	phoneRe = regexp.MustCompile(`(?:\+?\d{1,3}[\s.\-]?)?(?:\(\d{2,4}\)|\d{2,4})[\s.\-]?\d{3,4}[\s.\-]?\d{3,4}`)
	// "Austin, TX", "Toronto, ON", "Berlin, Germany"
	cityRegionRe = regexp.MustCompile(`\b[A-Z][a-zA-Z.\-]+(?: [A-Z][a-zA-Z.\-]+)*, (?:` + regionCodes + `)\b`)
	countryRe    = regexp.MustCompile(`\b[A-Z][a-zA-Z.\-]+, (?:United States|USA|United Kingdom|UK|Canada|Germany|France|Ireland|Netherlands|Spain|India|Australia|Singapore)\b`)
	streetRe     = regexp.MustCompile(`\b\d{1,5} (?:[A-Z][a-z]+ ){1,3}(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Lane|Ln|Drive|Dr|Way)\b`)
)

const regionCodes = "AL|AK|AZ|AR|CA|CO|CT|DE|DC|FL|GA|HI|ID|IL|IN|IA|KS|KY|LA|ME|MD|MA|MI|MN|MS|MO|MT|NE|NV|NH|NJ|NM|NY|NC|ND|OH|OK|OR|PA|RI|SC|SD|TN|TX|UT|VT|VA|WA|WV|WI|WY|" +
	"AB|BC|MB|NB|NL|NS|ON|PE|QC|SK"

// sectionHeadings maps a section check to heading phrases that introduce it.
var sectionHeadings = map[string][]string{
	CheckSummary: {
		"summary", "professional summary", "career summary", "profile",
		"professional profile", "objective", "career objective", "about me",
	},
	CheckEducation: {
		"education", "education and training", "academic background",
		"academic history", "qualifications", "certifications and education",
	},
	CheckExperience: {
		"experience", "work experience", "professional experience",
		"employment", "employment history", "work history", "career history",
		"relevant experience",
	},
}

// maxHeadingWords bounds how long a line may be and still count as a heading.
const maxHeadingWords = 5

// Report holds the outcome of each check.
type Report struct {
	Email      bool `json:"email"`
	Phone      bool `json:"phone"`
	Address    bool `json:"address"`
	Summary    bool `json:"summary"`
	Education  bool `json:"education"`
	Experience bool `json:"experience"`
}

// Check inspects normalized resume text.
func Check(text string) Report {
	r := Report{
		Email:   emailRe.MatchString(text),
		Phone:   hasPhone(text),
		Address: cityRegionRe.MatchString(text) || countryRe.MatchString(text) || streetRe.MatchString(text),
	}

	for _, line := range strings.Split(text, "\n") {
		heading := headingKey(line)
		if heading == "" {
			continue
		}
		for section, phrases := range sectionHeadings {
			for _, p := range phrases {
				if heading == p {
					r.set(section)
				}
			}
		}
	}
	return r
}

func (r *Report) set(check string) {
	switch check {
	case CheckSummary:
		r.Summary = true
	case CheckEducation:
		r.Education = true
	case CheckExperience:
		r.Experience = true
	}
}

// Passed reports the outcome of the named check.
func (r Report) Passed(check string) bool {
	switch check {
	case CheckEmail:
		return r.Email
	case CheckPhone:
		return r.Phone
	case CheckAddress:
		return r.Address
	case CheckSummary:
		return r.Summary
	case CheckEducation:
		return r.Education
	case CheckExperience:
		return r.Experience
	default:
		return false
	}
}

// Checks lists every check name in report order.
func Checks() []string {
	return []string{CheckEmail, CheckPhone, CheckAddress, CheckSummary, CheckEducation, CheckExperience}
}

// Missing returns the names of failed checks in report order.
func (r Report) Missing() []string {
	var out []string
	for _, c := range Checks() {
		if !r.Passed(c) {
			out = append(out, c)
		}
	}
	return out
}

// hasPhone requires at least seven digits in a phone-shaped match so that
// years and date ranges are not mistaken for numbers.
func hasPhone(text string) bool {
	for _, m := range phoneRe.FindAllString(text, -1) {
		digits := 0
		for _, r := range m {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits >= 7 && digits <= 15 {
			return true
		}
	}
	return false
}

// headingKey lower-cases a short line and strips decoration such as
// "EXPERIENCE:" or "## Education". It returns "" for lines too long to be headings.
func headingKey(line string) string {
	line = strings.ToLower(strings.TrimSpace(line))
	line = strings.Trim(line, "#*-=_:|• \t")
	line = strings.ReplaceAll(line, "&", "and")
	if line == "" || len(strings.Fields(line)) > maxHeadingWords {
		return ""
	}
	return strings.Join(strings.Fields(line), " ")
}
