package searchability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const fullResume = `Jane Doe
jane.doe@example.com | (512) 555-0199 | Austin, TX
PROFESSIONAL SUMMARY
Backend engineer with eight years of Go.
Work Experience:
Acme Corp, 2019 - 2024
## Education
B.S. Computer Science`

func TestCheck_AllPresent(t *testing.T) {
	r := Check(fullResume)

	assert.Equal(t, Report{Email: true, Phone: true, Address: true, Summary: true, Education: true, Experience: true}, r)
	assert.Empty(t, r.Missing())
}

func TestCheck_NothingPresent(t *testing.T) {
	r := Check("Built payment systems in Go and Python, SQL. Led 3 teams the same way since 2019-2021.")

	assert.Equal(t, Report{}, r)
	assert.Equal(t, Checks(), r.Missing())
}

func TestCheck_Contact(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		check string
		want  bool
	}{
		{"plain email", "reach me at dev+jobs@mail.co.uk", CheckEmail, true},
		{"at sign without domain", "@handle on social", CheckEmail, false},
		{"international phone", "+44 20 7946 0958", CheckPhone, true},
		{"dotted phone", "512.555.0199", CheckPhone, true},
		{"year range is not a phone", "2015 - 2019", CheckPhone, false},
		{"short number", "Team of 12", CheckPhone, false},
		{"city and province", "Toronto, ON", CheckAddress, true},
		{"city and country", "Berlin, Germany", CheckAddress, true},
		{"street", "1600 Amphitheatre Way", CheckAddress, true},
		{"skill list is not a city", "Python, Go, UI", CheckAddress, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Check(tt.text).Passed(tt.check))
		})
	}
}

func TestCheck_SectionHeadings(t *testing.T) {
	tests := []struct {
		line  string
		check string
		want  bool
	}{
		{"EXPERIENCE", CheckExperience, true},
		{"Employment History", CheckExperience, true},
		{"** Professional Experience **", CheckExperience, true},
		{"Experience building distributed systems at scale for a decade", CheckExperience, false},
		{"Education & Training", CheckEducation, true},
		{"Objective:", CheckSummary, true},
		{"About Me", CheckSummary, true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, Check("Name\n"+tt.line+"\nbody").Passed(tt.check))
		})
	}
}

func TestReport_MissingOrder(t *testing.T) {
	r := Report{Email: true, Education: true}
	assert.Equal(t, []string{CheckPhone, CheckAddress, CheckSummary, CheckExperience}, r.Missing())
	assert.False(t, r.Passed("unknown"))
}
