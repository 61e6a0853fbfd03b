package offer

import (
	"testing"

	"github.com/MikeSquared-Agency/offerdesk/internal/knowledge"
)

func TestCheckBoundary(t *testing.T) {
	vocab := knowledge.DefaultFrameworks().For("Video services").Services
	baseFacts := []string{"Base price $500", "Turnaround 5-7 days"}

	tests := []struct {
		name  string
		facts []string
		body  string
		want  []string
	}{
		{"no extra cost is a commitment", baseFacts, "<p>We'll add drone footage of the venue at no extra cost.</p>", []string{"drone footage"}},
		{"without delays is a commitment", baseFacts, "<p>We can deliver 3D animation without any delays.</p>", []string{"3D animation"}},
		{"no problem is a commitment", baseFacts, "<p>Drone footage included, no problem.</p>", []string{"drone footage"}},
		{"discuss elsewhere in the sentence", baseFacts, "<p>Let's discuss the edit; we will shoot drone footage on Friday.</p>", []string{"drone footage"}},
		{"not only is a commitment", baseFacts, "<p>We can not only shoot drone footage but also edit it.</p>", []string{"drone footage"}},
		{"declined with don't", baseFacts, "<p>We don't do 3D animation, but a UGC-style ad works.</p>", []string{"UGC"}},
		{"declined with do not currently", baseFacts, "<p>We do not currently offer drone footage.</p>", nil},
		{"declined with no", baseFacts, "<p>This package has no drone footage.</p>", nil},
		{"trailing decline", baseFacts, "<p>3D animation is not something we offer.</p>", nil},
		{"trailing isn't available", baseFacts, "<p>Drone footage isn't available this month.</p>", nil},
		{"negator far from the term", baseFacts, "<p>We do not charge extra for drone footage.</p>", []string{"drone footage"}},
		{"one committed mention is enough", baseFacts, "<p>We don't rent drones, but we'll add drone footage from our partner.</p>", []string{"drone footage"}},
		{"add-on fact offers the service", []string{"Drone footage add-on $200, not included in base"}, "<p>We'll add drone footage for $200.</p>", nil},
		{"excluded by fact", []string{"Service: We do not offer 3D animation"}, "<p>We'll deliver 3D animation.</p>", []string{"3D animation"}},
		{"offered by fact", []string{"Service: UGC ads"}, "<p>We'll shoot three UGC ads.</p>", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := checkBoundary(tt.body, tt.facts, vocab)
			got := map[string]bool{}
			for _, f := range flags {
				got[f.Term] = true
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected flags %v, got %+v", tt.want, flags)
			}
			for _, term := range tt.want {
				if !got[term] {
					t.Errorf("expected %q flagged, got %+v", term, flags)
				}
			}
		})
	}
}

func TestCheckBoundary_EmptyVocabulary(t *testing.T) {
	if flags := checkBoundary("<p>We'll add drone footage.</p>", nil, nil); flags != nil {
		t.Errorf("expected no flags, got %+v", flags)
	}
}
