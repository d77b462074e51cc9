package handler

import (
	"errors"
	"net/http"
	"sync"

	"marketfront/internal/i18n"
	"marketfront/internal/otp"
	"marketfront/internal/session"
	"marketfront/internal/upstream"
	"marketfront/internal/validate"
	"marketfront/pkg/response"

	"github.com/gin-gonic/gin"
)

// ResendCooldownSeconds is the wait before an OTP can be re-requested.
const ResendCooldownSeconds = 60

type AuthHandler struct {
	sessions *session.Store
	client   *upstream.Client
	t        *i18n.Store

	mu        sync.Mutex
	cooldowns map[string]*otp.Countdown // phone+purpose -> resend cooldown
	lockouts  map[string]*otp.Lockout   // phone+purpose -> wrong-code lockout
}

// NewAuthHandler sets up the auth flow endpoints (login, registration steps,
// OTP, forgot password).
func NewAuthHandler(sessions *session.Store, client *upstream.Client, t *i18n.Store) *AuthHandler {
	return &AuthHandler{
		sessions:  sessions,
		client:    client,
		t:         t,
		cooldowns: make(map[string]*otp.Countdown),
		lockouts:  make(map[string]*otp.Lockout),
	}
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/session", h.Session)
		auth.POST("/register", h.Register)
		auth.POST("/register/complete", h.CompleteRegistration)
		auth.POST("/otp/resend", h.ResendOTP)
		auth.POST("/otp/verify", h.VerifyOTP)
		auth.POST("/forgot", h.Forgot)
		auth.POST("/forgot/reset", h.ResetPassword)
	}
}

type loginRequest struct {
	DialCode string `json:"dial_code"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// fullPhone joins the optional dial code with the entered number.
func fullPhone(dial, phone string) string {
	if dial == "" {
		return phone
	}
	return otp.NormalizePhone(dial, phone)
}

// Login authenticates by phone and password
// @Summary      Login
// @Description  Exchanges phone+password for a session; errors are inline, never a redirect
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      loginRequest  true  "Credentials"
// @Success      200      {object}  response.Response{data=session.Snapshot}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	phone := fullPhone(req.DialCode, req.Phone)
	if err := validate.Phone(phone); err != nil {
		respondError(c, h.sessions, h.t, err)
		return
	}

	if err := h.sessions.Login(c.Request.Context(), phone, req.Password); err != nil {
		respondError(c, h.sessions, h.t, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.sessions.Snapshot()))
}

// Logout drops the session locally
// @Summary      Logout
// @Description  Clears tokens and the cached user; no server call is made
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.Logout(c.Request.Context())
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": h.t.Translate("auth.logged_out")}))
}

// Session returns the current session snapshot
// @Summary      Session snapshot
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=session.Snapshot}
// @Router       /api/auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.sessions.Snapshot()))
}

type registerRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	DialCode  string `json:"dial_code"`
	Phone     string `json:"phone" binding:"required"`
}

// Register starts registration: info step, backend sends the OTP
// @Summary      Register (info step)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      registerRequest  true  "Profile info"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	phone := fullPhone(req.DialCode, req.Phone)
	if err := validate.Phone(phone); err != nil {
		respondError(c, h.sessions, h.t, err)
		return
	}

	err := h.client.Register(c.Request.Context(), upstream.RegisterRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     phone,
	})
	if err != nil {
		respondError(c, h.sessions, h.t, err)
		return
	}

	h.startCooldown(phone, upstream.OTPPurposeRegister)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"cooldown": ResendCooldownSeconds}))
}

type otpResendRequest struct {
	Phone   string `json:"phone" binding:"required"`
	Purpose string `json:"purpose" binding:"required"`
}

// ResendOTP re-requests a code once the cooldown has elapsed
// @Summary      Resend OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      otpResendRequest  true  "Phone and purpose"
// @Success      200      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Router       /api/auth/otp/resend [post]
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var req otpResendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	if remaining := h.cooldownRemaining(req.Phone, req.Purpose); remaining > 0 {
		c.JSON(http.StatusTooManyRequests, response.Error(http.StatusTooManyRequests, h.t.Translate("auth.too_many_attempts")))
		return
	}

	if err := h.client.SendOTP(c.Request.Context(), req.Phone, req.Purpose); err != nil {
		respondError(c, h.sessions, h.t, err)
		return
	}

	h.startCooldown(req.Phone, req.Purpose)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"cooldown": ResendCooldownSeconds}))
}

type otpVerifyRequest struct {
	Phone   string   `json:"phone" binding:"required"`
	Purpose string   `json:"purpose" binding:"required"`
	Code    string   `json:"code"`
	Boxes   []string `json:"boxes"` // six single-character inputs, alternative to code
}

// VerifyOTP checks the entered code
// @Summary      Verify OTP
// @Description  Accepts a plain code or the six input boxes; rate-limited per phone
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      otpVerifyRequest  true  "Code"
// @Success      200      {object}  response.Response{data=upstream.VerifyResult}
// @Failure      400      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Router       /api/auth/otp/verify [post]
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req otpVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	lockout := h.lockout(req.Phone, req.Purpose)
	if locked, _ := lockout.Locked(); locked {
		c.JSON(http.StatusTooManyRequests, response.Error(http.StatusTooManyRequests, h.t.Translate("auth.too_many_attempts")))
		return
	}

	code := req.Code
	if code == "" {
		code = otp.Assemble(req.Boxes)
	}

	result, err := h.client.VerifyOTP(c.Request.Context(), req.Phone, code, req.Purpose)
	if err != nil {
		if errors.Is(err, upstream.ErrWrongCode) {
			lockout.Fail()
		}
		respondError(c, h.sessions, h.t, err)
		return
	}

	lockout.Reset()
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

type completeRegistrationRequest struct {
	Phone           string `json:"phone" binding:"required"`
	VerifyToken     string `json:"verify_token" binding:"required"`
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
}

// CompleteRegistration sets the password and signs the new account in
// @Summary      Register (password step)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      completeRegistrationRequest  true  "Password"
// @Success      200      {object}  response.Response{data=session.Snapshot}
// @Failure      400      {object}  response.Response
// @Router       /api/auth/register/complete [post]
func (h *AuthHandler) CompleteRegistration(c *gin.Context) {
	var req completeRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	if err := validate.Password(req.Password); err != nil {
		respondError(c, h.sessions, h.t, err)
		return
	}
	if err := validate.PasswordMatch(req.Password, req.PasswordConfirm); err != nil {
		respondError(c, h.sessions, h.t, err)
		return
	}

	if err := h.client.CompleteRegistration(c.Request.Context(), req.Phone, req.VerifyToken, req.Password); err != nil {
		respondError(c, h.sessions, h.t, err)
		return
	}

	if err := h.sessions.CompleteAuth(c.Request.Context()); err != nil {
		respondError(c, h.sessions, h.t, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.sessions.Snapshot()))
}

type forgotRequest struct {
	DialCode string `json:"dial_code"`
	Phone    string `json:"phone" binding:"required"`
}

// Forgot starts the forgot-password flow by sending a reset OTP
// @Summary      Forgot password (method step)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      forgotRequest  true  "Phone"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /api/auth/forgot [post]
func (h *AuthHandler) Forgot(c *gin.Context) {
	var req forgotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	phone := fullPhone(req.DialCode, req.Phone)
	if err := validate.Phone(phone); err != nil {
		respondError(c, h.sessions, h.t, err)
		return
	}

	if err := h.client.SendOTP(c.Request.Context(), phone, upstream.OTPPurposeReset); err != nil {
		respondError(c, h.sessions, h.t, err)
		return
	}

	h.startCooldown(phone, upstream.OTPPurposeReset)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"cooldown": ResendCooldownSeconds}))
}

type resetPasswordRequest struct {
	Phone           string `json:"phone" binding:"required"`
	VerifyToken     string `json:"verify_token" binding:"required"`
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
}

// ResetPassword finishes the forgot-password flow
// @Summary      Forgot password (new password step)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      resetPasswordRequest  true  "New password"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /api/auth/forgot/reset [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	if err := validate.Password(req.Password); err != nil {
		respondError(c, h.sessions, h.t, err)
		return
	}
	if err := validate.PasswordMatch(req.Password, req.PasswordConfirm); err != nil {
		respondError(c, h.sessions, h.t, err)
		return
	}

	if err := h.client.ResetPassword(c.Request.Context(), req.Phone, req.VerifyToken, req.Password); err != nil {
		respondError(c, h.sessions, h.t, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, nil))
}

func cooldownKey(phone, purpose string) string { return phone + ":" + purpose }

func (h *AuthHandler) startCooldown(phone, purpose string) {
	key := cooldownKey(phone, purpose)
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.cooldowns[key]; ok {
		old.Stop()
	}
	h.cooldowns[key] = otp.NewCountdown(ResendCooldownSeconds, nil)
}

func (h *AuthHandler) cooldownRemaining(phone, purpose string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cd, ok := h.cooldowns[cooldownKey(phone, purpose)]; ok {
		return cd.Remaining()
	}
	return 0
}

func (h *AuthHandler) lockout(phone, purpose string) *otp.Lockout {
	key := cooldownKey(phone, purpose)
	h.mu.Lock()
	defer h.mu.Unlock()
	if l, ok := h.lockouts[key]; ok {
		return l
	}
	l := otp.NewLockout(0, 0)
	h.lockouts[key] = l
	return l
}
