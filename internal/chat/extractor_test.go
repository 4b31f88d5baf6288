package chat

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/summitridge/leadgen/internal/ai"
	"github.com/summitridge/leadgen/internal/domain"
	apperrors "github.com/summitridge/leadgen/internal/errors"
)

func TestExtract_MapsFields(t *testing.T) {
	stub := &stubCompleter{completeResp: ai.Completion{Text: "```json\n" + qualifiedExtraction + "\n```"}}
	ex := NewExtractor(stub, zap.NewNop())

	got := ex.Extract(context.Background(), []domain.ConversationTurn{userTurn("deck please")}, "Sure!")
	if got.ProjectType != "deck" {
		t.Errorf("ProjectType = %q", got.ProjectType)
	}
	if got.SquareFootage != "300 sq ft" {
		t.Errorf("SquareFootage = %q", got.SquareFootage)
	}
	if got.Timeline != "this summer" {
		t.Errorf("Timeline = %q", got.Timeline)
	}
	if got.Materials != "" || got.Budget != "" {
		t.Errorf("absent fields not empty: %+v", got)
	}
}

func TestExtract_CarriesServiceAndProductFields(t *testing.T) {
	stub := &stubCompleter{completeResp: ai.Completion{
		Text: `{"serviceId":"decks","serviceName":"Decks","productInterest":"composite decking boards","description":"wants composite deck material pricing"}`,
	}}
	ex := NewExtractor(stub, zap.NewNop())

	got := ex.Extract(context.Background(), []domain.ConversationTurn{userTurn("what do composite deck boards run?")}, "")
	if got.ServiceID != "decks" {
		t.Errorf("ServiceID = %q", got.ServiceID)
	}
	if got.ServiceName != "Decks" {
		t.Errorf("ServiceName = %q", got.ServiceName)
	}
	if got.ProductInterest != "composite decking boards" {
		t.Errorf("ProductInterest = %q", got.ProductInterest)
	}
	if !got.HasServiceInterest() {
		t.Error("product interest alone must count as service interest")
	}
}

func TestExtract_CleansPlaceholders(t *testing.T) {
	stub := &stubCompleter{completeResp: ai.Completion{
		Text: `{"projectType":" roofing ","squareFootage":"N/A","materials":"unknown","timeline":"Not mentioned","budget":"null","description":"none"}`,
	}}
	ex := NewExtractor(stub, zap.NewNop())

	got := ex.Extract(context.Background(), []domain.ConversationTurn{userTurn("roof")}, "")
	if got.ProjectType != "roofing" {
		t.Errorf("ProjectType = %q, want trimmed %q", got.ProjectType, "roofing")
	}
	if got.SquareFootage != "" || got.Materials != "" || got.Timeline != "" || got.Budget != "" || got.Description != "" {
		t.Errorf("placeholders survived: %+v", got)
	}
}

func TestExtract_NeverErrors(t *testing.T) {
	tests := []struct {
		name string
		resp ai.Completion
	}{
		{"provider error", ai.Completion{Text: ai.UnavailableText, Err: apperrors.ProviderError(errors.New("upstream 500"))}},
		{"not json", ai.Completion{Text: "I couldn't find any details."}},
		{"empty", ai.Completion{Text: ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := NewExtractor(&stubCompleter{completeResp: tt.resp}, zap.NewNop())
			got := ex.Extract(context.Background(), []domain.ConversationTurn{userTurn("hi")}, "")
			if !got.IsEmpty() {
				t.Errorf("Extract = %+v, want empty on %s", got, tt.name)
			}
		})
	}
}

func TestExtract_EmptyTranscriptSkipsCall(t *testing.T) {
	stub := &stubCompleter{}
	ex := NewExtractor(stub, zap.NewNop())

	got := ex.Extract(context.Background(), nil, "")
	if !got.IsEmpty() {
		t.Errorf("Extract = %+v", got)
	}
	if stub.completeCalls != 0 {
		t.Errorf("completer called %d times for empty transcript", stub.completeCalls)
	}
}
