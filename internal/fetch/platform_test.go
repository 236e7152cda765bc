package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url      string
		expected Platform
	}{
		{"https://www.linkedin.com/jobs/view/3791234567", PlatformLinkedIn},
		{"https://linkedin.com/jobs/collections/recommended", PlatformLinkedIn},
		{"https://www.indeed.com/viewjob?jk=abc123", PlatformIndeed},
		{"https://job-boards.greenhouse.io/doordashusa/jobs/7063751", PlatformGreenhouse},
		{"https://boards.greenhouse.io/company/jobs/123", PlatformGreenhouse},
		{"https://jobs.lever.co/company/job-id", PlatformLever},
		{"https://company.wd5.myworkdayjobs.com/en-US/External", PlatformWorkday},
		{"https://example.com/jobs", PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			result := DetectPlatform(tt.url)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestPlatformContentSelectors_LinkedIn(t *testing.T) {
	selectors := PlatformContentSelectors(PlatformLinkedIn)
	assert.Contains(t, selectors, ".description__text")
}

func TestPlatformContentSelectors_Indeed(t *testing.T) {
	selectors := PlatformContentSelectors(PlatformIndeed)
	assert.Contains(t, selectors, "#jobDescriptionText")
}

func TestPlatformContentSelectors_Unknown(t *testing.T) {
	selectors := PlatformContentSelectors(PlatformUnknown)
	// Falls back to generic job posting selectors
	assert.Contains(t, selectors, ".job-description")
	assert.Contains(t, selectors, "main")
}

func TestPlatformNoiseSelectors(t *testing.T) {
	common := PlatformNoiseSelectors(PlatformUnknown)
	assert.Contains(t, common, "form")
	assert.Contains(t, common, "#application-form")

	linkedin := PlatformNoiseSelectors(PlatformLinkedIn)
	assert.Contains(t, linkedin, ".similar-jobs")
	assert.Contains(t, linkedin, "form")
}
