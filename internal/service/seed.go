package service

import (
	"context"
	"fmt"

	"github.com/Krackerr154/glabs-website/internal/models"
)

// SampleRecord is a record created by Seed when it does not exist yet.
type SampleRecord struct {
	Kind  models.Kind
	Input models.RecordInput
}

// SeedResult reports what Seed did.
type SeedResult struct {
	AdminID string
	Created []string
	Skipped []string
}

// Seeder creates the administrator account and the sample content.
type Seeder struct {
	Credentials *CredentialService
	Content     *ContentService
}

// Seed upserts the administrator and creates each sample whose slug is not
// taken yet. Running it twice leaves the content unchanged.
func (s *Seeder) Seed(ctx context.Context, email, password string, samples []SampleRecord) (*SeedResult, error) {
	admin, err := s.Credentials.EnsureAdmin(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("seeding admin: %w", err)
	}

	res := &SeedResult{AdminID: admin.ID}
	for _, sample := range samples {
		name := sample.Kind.Plural() + "/" + sample.Input.Slug
		_, err := s.Content.Create(ctx, sample.Kind, sample.Input)
		if verr, ok := models.AsValidationError(err); ok && verr.Field == "slug" {
			res.Skipped = append(res.Skipped, name)
			continue
		}
		if err != nil {
			return res, fmt.Errorf("seeding %s: %w", name, err)
		}
		res.Created = append(res.Created, name)
	}
	return res, nil
}

// DefaultSamples is the starter content of a fresh site.
var DefaultSamples = []SampleRecord{
	{
		Kind: models.KindNote,
		Input: models.RecordInput{
			Title:   "Welcome to My Blog",
			Slug:    "welcome-to-my-blog",
			Summary: "An introduction to my personal blog and what you can expect to find here.",
			Content: `# Welcome to My Blog

This is my first blog post! I'll be sharing insights about technology, development, and research.

## What to Expect

- Technical tutorials and guides
- Research findings and experiments
- Project updates and showcases
- Thoughts on the tech industry

Stay tuned for more content!`,
			Tags:      []string{"introduction", "welcome", "meta"},
			Published: true,
		},
	},
	{
		Kind: models.KindExperiment,
		Input: models.RecordInput{
			Title:   "Web Performance Optimization Study",
			Slug:    "performance-optimization-study",
			Summary: "Analyzing various techniques to improve web application performance",
			Content: `# Performance Optimization Study

## Objective
Identify and test various performance optimization techniques for modern web applications.

## Methodology
- Baseline performance measurements
- Implementation of optimization strategies
- Comparative analysis

## Key Findings
- Code splitting reduced initial load time by 40%
- Image optimization saved 2MB per page load
- Caching strategies improved repeat visit performance by 60%

## Conclusion
Performance optimization is crucial for user experience and should be considered from the start of development.`,
			Published: true,
		},
	},
	{
		Kind: models.KindProject,
		Input: models.RecordInput{
			Title:     "Portfolio Website",
			Slug:      "portfolio-website",
			Summary:   "A modern, responsive portfolio website with server-rendered pages and an admin back-office",
			Content:   "Personal portfolio showcasing projects and technical writing.",
			Tags:      []string{"Go", "PostgreSQL", "chi"},
			Status:    models.StatusCompleted,
			Featured:  true,
			Published: true,
			GithubURL: "https://github.com/Krackerr154/glabs-website",
			LiveURL:   "https://g-labs.my.id",
		},
	},
	{
		Kind: models.KindProject,
		Input: models.RecordInput{
			Title:     "Task Management API",
			Slug:      "task-management-api",
			Summary:   "RESTful API for task management with authentication",
			Content:   "A robust task management API built with modern technologies.",
			Tags:      []string{"Node.js", "Express", "MongoDB", "JWT"},
			Status:    models.StatusCompleted,
			Published: true,
			GithubURL: "https://github.com/Krackerr154/task-api",
		},
	},
}
