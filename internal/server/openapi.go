package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for generic error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is returned for single-message payloads, e.g. resumeGame
// and domain-rule rejections.
type MessageResponse struct {
	Message string `json:"message"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Where's Waldo API"
	r.Spec.Info.Version = "1.0.0"
	r.Spec.Info.WithDescription("Backend API for the Where's Waldo point-and-click game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /scene
	listScenes, _ := r.NewOperationContext(http.MethodGet, "/scene")
	listScenes.SetSummary("List scenes")
	listScenes.SetDescription("Returns every playable scene without character details. Sets the session cookie.")
	listScenes.AddRespStructure(SceneListResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listScenes)

	// GET /scene/{id}
	getScene, _ := r.NewOperationContext(http.MethodGet, "/scene/{id}")
	getScene.SetSummary("Get scene")
	getScene.SetDescription("Returns the background image for one scene.")
	getScene.AddRespStructure(SceneResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getScene.AddRespStructure(validationResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(getScene)

	// GET /scene/{id}/characters
	listCharacters, _ := r.NewOperationContext(http.MethodGet, "/scene/{id}/characters")
	listCharacters.SetSummary("List scene characters")
	listCharacters.SetDescription("Returns the name and icon of every character hidden in the scene.")
	listCharacters.AddRespStructure(CharacterListResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	listCharacters.AddRespStructure(validationResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(listCharacters)

	// GET /scene/{id}/game
	getGame, _ := r.NewOperationContext(http.MethodGet, "/scene/{id}/game")
	getGame.SetSummary("Get or create game")
	getGame.SetDescription("Returns the session's game for this scene, creating one on first visit. The scene projection lists only characters not yet found.")
	getGame.AddRespStructure(GameResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getGame.AddRespStructure(validationResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(getGame)

	// PUT /scene/{id}/game
	claimUsername, _ := r.NewOperationContext(http.MethodPut, "/scene/{id}/game")
	claimUsername.SetSummary("Claim leaderboard username")
	claimUsername.SetDescription("Records a username on a completed game that currently places in the top ten.")
	claimUsername.AddReqStructure(ClaimRequest{})
	claimUsername.AddRespStructure(GameResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	claimUsername.AddRespStructure(MessageResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(claimUsername)

	// PUT /scene/{id}/game/answer
	putAnswer, _ := r.NewOperationContext(http.MethodPut, "/scene/{id}/game/answer")
	putAnswer.SetSummary("Submit answer")
	putAnswer.SetDescription("Checks a coordinate guess against a character's hit region. Correct answers respond 201; the completing answer includes elapsed_time and inTopTen.")
	putAnswer.AddRespStructure(AnswerResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	putAnswer.AddRespStructure(AnswerResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	putAnswer.AddRespStructure(validationResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(putAnswer)

	// GET /scene/{id}/game/answer
	getAnswers, _ := r.NewOperationContext(http.MethodGet, "/scene/{id}/game/answer")
	getAnswers.SetSummary("List found characters")
	getAnswers.SetDescription("Returns the characters found so far with their last accepted coordinates.")
	getAnswers.AddRespStructure(GameAnswersResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getAnswers)

	// GET /scene/{id}/topten
	getTopTen, _ := r.NewOperationContext(http.MethodGet, "/scene/{id}/topten")
	getTopTen.SetSummary("Scene leaderboard")
	getTopTen.SetDescription("Returns the ten fastest completed games for the scene, ascending by elapsed time.")
	getTopTen.AddRespStructure(TopTenResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getTopTen.AddRespStructure(validationResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(getTopTen)

	// GET /scene/{id}/resumeGame
	resumeGame, _ := r.NewOperationContext(http.MethodGet, "/scene/{id}/resumeGame")
	resumeGame.SetSummary("Check for a resumable game")
	resumeGame.SetDescription("Reports whether this session already has a game for the scene.")
	resumeGame.AddRespStructure(MessageResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(resumeGame)

	// POST /user/signup
	postSignup, _ := r.NewOperationContext(http.MethodPost, "/user/signup")
	postSignup.SetSummary("Sign up")
	postSignup.SetDescription("Creates a user account. Passwords are stored as bcrypt hashes.")
	postSignup.AddReqStructure(SignupRequest{})
	postSignup.AddRespStructure(UserResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postSignup.AddRespStructure(validationResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postSignup)

	// POST /user/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/user/login")
	postLogin.SetSummary("Log in")
	postLogin.SetDescription("Verifies credentials and returns a bearer token in the Authorization response header.")
	postLogin.AddReqStructure(LoginRequest{})
	postLogin.AddRespStructure(UserResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// GET /user
	getUser, _ := r.NewOperationContext(http.MethodGet, "/user")
	getUser.SetSummary("Current user")
	getUser.SetDescription("Returns the authenticated user's profile. Requires Bearer token.")
	getUser.AddRespStructure(UserResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getUser.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getUser)

	// PUT /user
	putUser, _ := r.NewOperationContext(http.MethodPut, "/user")
	putUser.SetSummary("Update user")
	putUser.SetDescription("Partially updates the authenticated user's profile. Requires Bearer token.")
	putUser.AddReqStructure(UpdateUserRequest{})
	putUser.AddRespStructure(UserResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	putUser.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(putUser)

	// DELETE /user
	deleteUser, _ := r.NewOperationContext(http.MethodDelete, "/user")
	deleteUser.SetSummary("Delete user")
	deleteUser.SetDescription("Deletes the authenticated user's account. Requires Bearer token.")
	deleteUser.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteUser.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(deleteUser)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
