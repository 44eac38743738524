package main

import (
	"context"
	"fmt"
	"time"

	"github.com/groblegark/exptrack/internal/client"
	"github.com/spf13/cobra"
)

type seedExperiment struct {
	req      client.CreateExperimentRequest
	versions []seedVersion
}

type seedVersion struct {
	changeDate string
	changes    string
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func boolPtr(b bool) *bool { return &b }

var seedData = []seedExperiment{
	{
		req: client.CreateExperimentRequest{
			Name:         "New Checkout Flow",
			ExpParameter: "checkout_v2",
			UserGroup:    "premium_users",
			NumbersList:  []string{"123456", "789012", "345678", "901234"},
			LiveDate:     date("2024-01-15"),
			Platforms:    []string{"web", "mobile"},
			Context: `## Overview
This experiment introduces a redesigned checkout flow with improved UX and conversion optimization.

### Key Features
- **Streamlined process**: Reduced steps from 5 to 3
- **Payment options**: Added Apple Pay and Google Pay
- **Progress indicator**: Visual progress bar for better user guidance

### Expected Impact
- 15% increase in conversion rate
- 20% reduction in cart abandonment`,
		},
		versions: []seedVersion{
			{"2024-01-20", `### Version 1.1 Updates
- Fixed payment processing bug for international cards
- Improved mobile responsiveness
- Added error handling for network timeouts`},
			{"2024-02-05", `### Version 1.2 Updates
- Added guest checkout option
- Reduced form validation errors by 30%
- Performance optimizations`},
		},
	},
	{
		req: client.CreateExperimentRequest{
			Name:         "AI-Powered Recommendations",
			ExpParameter: "ai_recommendations",
			UserGroup:    "all_users",
			NumbersList:  []string{"555123", "555456", "555789"},
			LiveDate:     date("2024-02-01"),
			Platforms:    []string{"web", "ios", "android"},
			Context: `## Overview
Machine learning-powered product recommendations using collaborative filtering.

### Technical Details
- Uses user behavior data and purchase history
- Real-time model updates every 6 hours
- A/B testing with 50/50 split`,
		},
		versions: []seedVersion{
			{"2024-02-10", `### Version 2.0 Updates
- Upgraded ML model with better accuracy
- Added "Why this recommendation?" explanation
- Improved loading times`},
		},
	},
	{
		req: client.CreateExperimentRequest{
			Name:         "Dark Mode Theme",
			ExpParameter: "dark_mode",
			UserGroup:    "beta_testers",
			LiveDate:     date("2024-01-20"),
			Platforms:    []string{"web"},
			Context: `## Overview
New dark mode theme option for better user experience in low-light conditions.

### Features
- System preference detection
- Manual toggle option
- Smooth theme transitions`,
		},
		versions: []seedVersion{
			{"2024-01-25", `### Version 1.1 Updates
- Fixed contrast issues for accessibility
- Added custom color scheme options
- Improved theme persistence`},
		},
	},
	{
		req: client.CreateExperimentRequest{
			Name:         "Social Sharing Integration",
			ExpParameter: "social_sharing",
			UserGroup:    "power_users",
			NumbersList:  []string{"999888", "999777", "999666"},
			LiveDate:     date("2023-12-10"),
			Platforms:    []string{"ios", "android"},
			IsActive:     boolPtr(false),
			Context: `## Overview
Enhanced social sharing capabilities with one-tap sharing to major platforms.

### Supported Platforms
- Facebook
- Twitter/X
- Instagram Stories
- WhatsApp`,
		},
	},
	{
		req: client.CreateExperimentRequest{
			Name:         "Voice Search Feature",
			ExpParameter: "voice_search",
			UserGroup:    "early_adopters",
			NumbersList:  []string{"111222", "333444"},
			LiveDate:     date("2024-02-15"),
			Platforms:    []string{"ios", "android"},
			Context: `## Overview
Voice-activated search functionality using speech-to-text technology.

### Capabilities
- Natural language queries
- Multi-language support (EN, ES, FR)
- Offline mode for basic commands`,
		},
		versions: []seedVersion{
			{"2024-02-20", `### Version 1.1 Updates
- Added support for German and Italian
- Improved voice recognition accuracy
- Fixed background noise filtering`},
		},
	},
}

var seedCmd = &cobra.Command{
	Use:     "seed",
	Short:   "Replace all experiments with sample data",
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		existing, err := apiClient.ListExperiments(ctx, &client.ListExperimentsRequest{})
		if err != nil {
			return fmt.Errorf("listing experiments: %w", err)
		}
		for _, exp := range existing.Experiments {
			if err := apiClient.DeleteExperiment(ctx, exp.ID); err != nil {
				return fmt.Errorf("deleting experiment %s: %w", exp.ID, err)
			}
		}

		var experimentCount, versionCount int
		for _, seed := range seedData {
			exp, err := apiClient.CreateExperiment(ctx, &seed.req)
			if err != nil {
				return fmt.Errorf("creating %q: %w", seed.req.Name, err)
			}
			experimentCount++

			for _, ver := range seed.versions {
				if _, err := apiClient.AddVersion(ctx, exp.ID, date(ver.changeDate), ver.changes); err != nil {
					return fmt.Errorf("adding version to %q: %w", seed.req.Name, err)
				}
				versionCount++
			}
		}

		fmt.Printf("Seeded %d experiments and %d versions\n", experimentCount, versionCount)
		return nil
	},
}
