package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"densitydesk/internal/config"
	"densitydesk/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{Env: "production", APIBaseOverride: srv.URL}
	return New(cfg.Endpoints(), opts...)
}

func TestAnalyze(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/analyze_text" {
			t.Errorf("path = %s, want /analyze_text", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		var body textRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Text != "apple banana apple" {
			t.Errorf("text = %q", body.Text)
		}
		json.NewEncoder(w).Encode(models.AnalysisResult{
			SingleKeywords: []models.SingleKeywordStat{{Keyword: "apple", Density: 66.7, TimesUsed: 2}},
			TotalWords:     3,
			UniqueWords:    2,
		})
	})

	result, err := client.Analyze(context.Background(), "apple banana apple")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if result.TotalWords != 3 || result.UniqueWords != 2 {
		t.Errorf("Analyze() counts = %d/%d, want 3/2", result.TotalWords, result.UniqueWords)
	}
	if len(result.SingleKeywords) != 1 || result.SingleKeywords[0].Keyword != "apple" {
		t.Errorf("Analyze() keywords = %+v", result.SingleKeywords)
	}
}

func TestAnalyze_HTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"No text provided"}`))
	})

	_, err := client.Analyze(context.Background(), "")
	if err == nil {
		t.Fatal("Analyze() error = nil, want error")
	}
	var re *RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("error %T is not *RemoteError", err)
	}
	if re.StatusCode != http.StatusBadRequest || re.Message != "No text provided" {
		t.Errorf("RemoteError = %+v", re)
	}
	if !errors.Is(err, ErrRemote) {
		t.Error("errors.Is(err, ErrRemote) = false")
	}
	if got := UserMessage(OpAnalyze, err); got != "No text provided" {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestAnalyze_NonJSONError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	})

	_, err := client.Analyze(context.Background(), "text")
	if got, want := UserMessage(OpAnalyze, err), "Failed to analyze text"; got != want {
		t.Errorf("UserMessage() = %q, want %q", got, want)
	}
}

func TestAnalyze_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	cfg := &config.Config{Env: "production", APIBaseOverride: url}
	client := New(cfg.Endpoints())

	_, err := client.Analyze(context.Background(), "text")
	if err == nil {
		t.Fatal("Analyze() error = nil, want network error")
	}
	if got, want := UserMessage(OpAnalyze, err), "Failed to analyze text"; got != want {
		t.Errorf("UserMessage() = %q, want %q", got, want)
	}
}

func TestCheckSpamRisk(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantErr  bool
		wantMsg  string
		wantRisk float64
	}{
		{
			name:     "success",
			body:     `{"success":true,"risk":6,"level":"medium","details":[{"word":"tab","count":12}]}`,
			wantRisk: 6,
		},
		{
			name:    "failure with message",
			body:    `{"success":false,"error":"Spam API unavailable"}`,
			wantErr: true,
			wantMsg: "Spam API unavailable",
		},
		{
			name:    "missing success flag",
			body:    `{"risk":3,"level":"low"}`,
			wantErr: true,
			wantMsg: "Failed to check spam risk",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/check_spam_risk" {
					t.Errorf("path = %s", r.URL.Path)
				}
				w.Write([]byte(tt.body))
			})

			result, err := client.CheckSpamRisk(context.Background(), "text")
			if tt.wantErr {
				if err == nil {
					t.Fatal("CheckSpamRisk() error = nil, want error")
				}
				if !errors.Is(err, ErrSpamCheckFailed) {
					t.Errorf("errors.Is(err, ErrSpamCheckFailed) = false for %v", err)
				}
				if got := UserMessage(OpSpamCheck, err); got != tt.wantMsg {
					t.Errorf("UserMessage() = %q, want %q", got, tt.wantMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("CheckSpamRisk() error = %v", err)
			}
			if result.Risk != tt.wantRisk || len(result.Details) != 1 {
				t.Errorf("CheckSpamRisk() = %+v", result)
			}
		})
	}
}

func TestGenerateDescription(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.ExtensionName != "Tab Saver" || len(req.MainKeywords) != 1 || req.MainKeywords[0] != "tabs" {
			t.Errorf("request = %+v", req)
		}
		if req.ExtraKeywords == nil {
			t.Error("extra_keywords should be an empty list, not null")
		}
		w.Write([]byte(`{"description":"🧠 Features\n<b>Save</b> tabs & sessions"}`))
	})

	state := models.AppState{
		ExtensionName:    "Tab Saver",
		ShortDescription: "Save and restore tab sessions",
		MainKeywords: []models.KeywordRecord{
			{Key: "tabs"},
			{Key: ""},
		},
	}

	got, err := client.GenerateDescription(context.Background(), NewGenerateRequest(state))
	if err != nil {
		t.Fatalf("GenerateDescription() error = %v", err)
	}
	if want := "🧠 Features\nSave tabs & sessions"; got != want {
		t.Errorf("GenerateDescription() = %q, want %q", got, want)
	}
}

func TestSaveAndGetAnalysis(t *testing.T) {
	var mu sync.Mutex
	saved := map[string]models.SavedAnalysis{}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch r.URL.Path {
		case "/save_analysis":
			var bundle models.SavedAnalysis
			json.NewDecoder(r.Body).Decode(&bundle)
			saved["ab12cd34"] = bundle
			w.Write([]byte(`{"id":"ab12cd34"}`))
		case "/get_analysis":
			var req idRequest
			json.NewDecoder(r.Body).Decode(&req)
			bundle, ok := saved[req.ID]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"error":"Analysis not found"}`))
				return
			}
			json.NewEncoder(w).Encode(bundle)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	ctx := context.Background()
	id, err := client.SaveAnalysis(ctx, models.SavedAnalysis{
		Text:           "tab manager",
		AnalysisResult: &models.AnalysisResult{TotalWords: 2},
	})
	if err != nil {
		t.Fatalf("SaveAnalysis() error = %v", err)
	}
	if id != "ab12cd34" {
		t.Errorf("SaveAnalysis() id = %q", id)
	}

	bundle, err := client.GetAnalysis(ctx, id)
	if err != nil {
		t.Fatalf("GetAnalysis() error = %v", err)
	}
	if bundle.ID != id || bundle.Text != "tab manager" || bundle.AnalysisResult.TotalWords != 2 {
		t.Errorf("GetAnalysis() = %+v", bundle)
	}

	_, err = client.GetAnalysis(ctx, "missing")
	if got := UserMessage(OpGet, err); got != "Analysis not found" {
		t.Errorf("GetAnalysis(missing) message = %q", got)
	}
	if _, err := client.GetAnalysis(ctx, ""); !errors.Is(err, ErrEmptyID) {
		t.Errorf("GetAnalysis(\"\") error = %v, want ErrEmptyID", err)
	}
}

func TestSaveAnalysis_MissingID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	if _, err := client.SaveAnalysis(context.Background(), models.SavedAnalysis{}); !errors.Is(err, ErrEmptyID) {
		t.Errorf("SaveAnalysis() error = %v, want ErrEmptyID", err)
	}
}

func TestObserver(t *testing.T) {
	type call struct{ op, outcome string }
	var calls []call

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/analyze_text" {
			w.Write([]byte(`{"totalWords":1}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}, WithObserver(func(op, outcome string, elapsed time.Duration) {
		calls = append(calls, call{op, outcome})
	}))

	client.Analyze(context.Background(), "x")
	client.CheckSpamRisk(context.Background(), "x")

	want := []call{{OpAnalyze, "success"}, {OpSpamCheck, "error"}}
	if len(calls) != len(want) {
		t.Fatalf("observer calls = %+v, want %+v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d = %+v, want %+v", i, calls[i], want[i])
		}
	}
}
