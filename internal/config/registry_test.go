package config

import (
	"errors"
	"testing"

	"github.com/MrWong99/inkwell/pkg/provider/llm"
	llmmock "github.com/MrWong99/inkwell/pkg/provider/llm/mock"
)

func TestRegistryCreateLLM(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()

	var gotEntry ProviderEntry
	reg.RegisterLLM("fake", func(entry ProviderEntry) (llm.Provider, error) {
		gotEntry = entry
		return &llmmock.Provider{}, nil
	})

	entry := ProviderEntry{Name: "fake", APIKey: "key", Model: "m1"}
	p, err := reg.CreateLLM(entry)
	if err != nil {
		t.Fatalf("CreateLLM: %v", err)
	}
	if p == nil {
		t.Fatal("CreateLLM returned nil provider")
	}
	if gotEntry.APIKey != "key" || gotEntry.Model != "m1" {
		t.Errorf("factory received %+v", gotEntry)
	}
}

func TestRegistryUnregisteredProvider(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()

	if _, err := reg.CreateLLM(ProviderEntry{Name: "ghost"}); !errors.Is(err, ErrProviderNotRegistered) {
		t.Errorf("CreateLLM error = %v, want ErrProviderNotRegistered", err)
	}
	if _, err := reg.CreateSTT(ProviderEntry{Name: "ghost"}); !errors.Is(err, ErrProviderNotRegistered) {
		t.Errorf("CreateSTT error = %v, want ErrProviderNotRegistered", err)
	}
	if _, err := reg.CreateTTS(ProviderEntry{Name: "ghost"}); !errors.Is(err, ErrProviderNotRegistered) {
		t.Errorf("CreateTTS error = %v, want ErrProviderNotRegistered", err)
	}
}
