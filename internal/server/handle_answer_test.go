package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func startGame(t *testing.T, a *agent, sceneID string) {
	t.Helper()
	w := a.get("/scene/" + sceneID + "/game")
	if w.Code != http.StatusOK {
		t.Fatalf("starting game: expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func completeSceneOne(t *testing.T, a *agent) *httptest.ResponseRecorder {
	t.Helper()
	for _, target := range []string{
		"/scene/1/game/answer?x=6.87&y=68.55&character=Odlaw",
		"/scene/1/game/answer?x=40.45&y=62.17&character=Waldo",
	} {
		if w := a.put(target, nil); w.Code != http.StatusCreated {
			t.Fatalf("correct answer: expected 201, got %d: %s", w.Code, w.Body.String())
		}
	}
	w := a.put("/scene/1/game/answer?x=77.86&y=57.39&character=Wizard+Whitebeard", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("final answer: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	return w
}

func TestSubmitAnswerMissingCharacter(t *testing.T) {
	env := newTestEnv(t)
	a := env.agent()
	startGame(t, a, "1")

	w := a.put("/scene/1/game/answer?x=0&y=0", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	resp := decode[validationResponse](t, w)
	if resp.StatusCode != 400 || resp.Message != validationMessage {
		t.Errorf("envelope = %+v", resp)
	}
	found := false
	for _, d := range resp.Details {
		if d.Path == "character" && d.Msg == "A character is required to complete the request" &&
			d.Location == "query" && d.Value == "" {
			found = true
		}
	}
	if !found {
		t.Errorf("missing character detail, got %+v", resp.Details)
	}
}

func TestSubmitAnswerInvalidCharacter(t *testing.T) {
	env := newTestEnv(t)
	a := env.agent()
	startGame(t, a, "1")

	w := a.put("/scene/1/game/answer?x=0&y=0&character=invalid", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	resp := decode[validationResponse](t, w)
	want := "The character name invalid is invalid. Must be one of [Odlaw,Waldo,Wizard Whitebeard]"
	found := false
	for _, d := range resp.Details {
		if d.Path == "character" && d.Msg == want && d.Value == "invalid" {
			found = true
		}
	}
	if !found {
		t.Errorf("missing invalid-character detail, got %+v", resp.Details)
	}
}

func TestSubmitAnswerMissingX(t *testing.T) {
	env := newTestEnv(t)
	a := env.agent()
	startGame(t, a, "1")

	w := a.put("/scene/1/game/answer?y=0&character=Odlaw", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	resp := decode[validationResponse](t, w)
	var msgs []string
	for _, d := range resp.Details {
		if d.Path == "x" && d.Location == "query" && d.Value == "" {
			msgs = append(msgs, d.Msg)
		}
	}
	if len(msgs) != 2 {
		t.Fatalf("expected both a required and a range detail for x, got %v", msgs)
	}
	if msgs[0] != "an x coordinate is required" {
		t.Errorf("msgs[0] = %q", msgs[0])
	}
	if msgs[1] != "the x coordinate should be a number between 0 and 100" {
		t.Errorf("msgs[1] = %q", msgs[1])
	}
}

func TestSubmitAnswerCoordinateOutOfRange(t *testing.T) {
	env := newTestEnv(t)
	a := env.agent()
	startGame(t, a, "1")

	for _, bad := range []string{"-1", "101", "a"} {
		w := a.put("/scene/1/game/answer?x="+bad+"&y=0&character=Odlaw", nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("x=%s: expected 400, got %d", bad, w.Code)
		}

		resp := decode[validationResponse](t, w)
		found := false
		for _, d := range resp.Details {
			if d.Path == "x" && d.Msg == "the x coordinate should be a number between 0 and 100" && d.Value == bad {
				found = true
			}
		}
		if !found {
			t.Errorf("x=%s: missing range detail, got %+v", bad, resp.Details)
		}
	}
}

func TestSubmitAnswerMissingY(t *testing.T) {
	env := newTestEnv(t)
	a := env.agent()
	startGame(t, a, "1")

	w := a.put("/scene/1/game/answer?x=0&character=Odlaw", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	resp := decode[validationResponse](t, w)
	var msgs []string
	for _, d := range resp.Details {
		if d.Path == "y" {
			msgs = append(msgs, d.Msg)
		}
	}
	if len(msgs) != 2 || msgs[0] != "a y coordinate is required" {
		t.Errorf("y details = %v", msgs)
	}
}

func TestWrongAnswer(t *testing.T) {
	env := newTestEnv(t)
	a := env.agent()
	startGame(t, a, "1")

	w := a.put("/scene/1/game/answer?x=0&y=0&character=Odlaw", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := decode[AnswerResponse](t, w)
	if resp.Message != "Wrong answer" || resp.X != "0" || resp.Y != "0" || resp.Character != "Odlaw" {
		t.Errorf("resp = %+v", resp)
	}
	if resp.ElapsedTime != nil || resp.InTopTen != nil {
		t.Error("wrong answer should not carry completion fields")
	}
}

func TestWrongCharacterAtAnotherCharactersSpot(t *testing.T) {
	env := newTestEnv(t)
	a := env.agent()
	startGame(t, a, "1")

	// Odlaw's location, Waldo's name: still wrong.
	w := a.put("/scene/1/game/answer?x=6.87&y=68.55&character=Waldo", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if resp := decode[AnswerResponse](t, w); resp.Message != "Wrong answer" {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestCorrectAnswersCompleteGame(t *testing.T) {
	env := newTestEnv(t)
	a := env.agent()
	startGame(t, a, "1")

	w := a.put("/scene/1/game/answer?x=6.87&y=68.55&character=Odlaw", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	first := decode[AnswerResponse](t, w)
	if first.Message != "Correct answer" || first.X != "6.87" || first.Y != "68.55" || first.Character != "Odlaw" {
		t.Errorf("first = %+v", first)
	}
	if first.ElapsedTime != nil {
		t.Error("non-final answer should not carry elapsed_time")
	}

	a.put("/scene/1/game/answer?x=40.45&y=62.17&character=Waldo", nil)

	w = a.put("/scene/1/game/answer?x=77.86&y=57.39&character=Wizard+Whitebeard", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	last := decode[AnswerResponse](t, w)
	if last.ElapsedTime == nil {
		t.Fatal("final answer should carry elapsed_time")
	}
	if last.InTopTen == nil || !*last.InTopTen {
		t.Error("first completion on an empty board should be in the top ten")
	}
}

func TestRepeatedCorrectAnswerRecordedOnce(t *testing.T) {
	env := newTestEnv(t)
	a := env.agent()
	startGame(t, a, "1")

	a.put("/scene/1/game/answer?x=6.87&y=68.55&character=Odlaw", nil)
	w := a.put("/scene/1/game/answer?x=6.87&y=68.55&character=Odlaw", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("repeat: expected 201, got %d", w.Code)
	}

	answers := decode[GameAnswersResponse](t, a.get("/scene/1/game/answer"))
	if len(answers.GameAnswers) != 1 {
		t.Errorf("gameAnswers = %+v, want exactly one entry", answers.GameAnswers)
	}
}

func TestResubmitAfterCompletionOverwritesCoordinates(t *testing.T) {
	env := newTestEnv(t)
	a := env.agent()
	startGame(t, a, "1")
	completeSceneOne(t, a)

	// Slightly different but still in-range coordinates: accepted, and the
	// stored answer is overwritten without touching completion state.
	w := a.put("/scene/1/game/answer?x=77.3&y=57&character=Wizard+Whitebeard", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	answers := decode[GameAnswersResponse](t, a.get("/scene/1/game/answer"))
	if len(answers.GameAnswers) != 3 {
		t.Fatalf("gameAnswers length = %d, want 3", len(answers.GameAnswers))
	}
	found := false
	for _, ans := range answers.GameAnswers {
		if ans.Name == "Wizard Whitebeard" && ans.X == 77.3 && ans.Y == 57 {
			found = true
		}
	}
	if !found {
		t.Errorf("overwritten coordinates not stored: %+v", answers.GameAnswers)
	}
}

func TestWrongGuessAfterCompletionIgnored(t *testing.T) {
	env := newTestEnv(t)
	a := env.agent()
	startGame(t, a, "1")
	completeSceneOne(t, a)

	w := a.put("/scene/1/game/answer?x=0&y=57&character=Wizard+Whitebeard", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	answers := decode[GameAnswersResponse](t, a.get("/scene/1/game/answer"))
	if len(answers.GameAnswers) != 3 {
		t.Fatalf("gameAnswers length = %d, want 3", len(answers.GameAnswers))
	}
	for _, ans := range answers.GameAnswers {
		if ans.Name == "Wizard Whitebeard" && ans.X != 77.86 {
			t.Errorf("stored coordinates mutated by a wrong guess: %+v", ans)
		}
	}
}

func TestCompletionIsMonotonic(t *testing.T) {
	env := newTestEnv(t)
	a := env.agent()
	startGame(t, a, "1")
	completeSceneOne(t, a)

	before := decode[GameResponse](t, a.get("/scene/1/game"))
	if before.Game.EndTime == nil {
		t.Fatal("expected end_time after completion")
	}

	// A correct resubmission must not move end_time.
	a.put("/scene/1/game/answer?x=77.3&y=57&character=Wizard+Whitebeard", nil)

	after := decode[GameResponse](t, a.get("/scene/1/game"))
	if after.Game.EndTime == nil || *after.Game.EndTime != *before.Game.EndTime {
		t.Errorf("end_time changed: %v -> %v", *before.Game.EndTime, after.Game.EndTime)
	}
}

func TestListAnswersEmptyAfterWrongGuess(t *testing.T) {
	env := newTestEnv(t)
	a := env.agent()
	startGame(t, a, "1")

	a.put("/scene/1/game/answer?x=9&y=9&character=Odlaw", nil)

	w := a.get("/scene/1/game/answer")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := decode[GameAnswersResponse](t, w)
	if resp.Message != "success" {
		t.Errorf("message = %q", resp.Message)
	}
	if resp.GameAnswers == nil || len(resp.GameAnswers) != 0 {
		t.Errorf("gameAnswers = %v, want an empty array", resp.GameAnswers)
	}
}
