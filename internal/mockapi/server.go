package mockapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Otwaboy/Agaspay-Capstone-sub004/internal/dto"
	"github.com/Otwaboy/Agaspay-Capstone-sub004/internal/models"
	"github.com/Otwaboy/Agaspay-Capstone-sub004/pkg/config"
	"github.com/Otwaboy/Agaspay-Capstone-sub004/pkg/logger"
)

// Server is the local fixture backend the console is developed against. It
// mirrors the production API's envelope quirks on purpose: collections nest
// under per-resource keys, records carry `_id`, and errors use `msg`.
type Server struct {
	cfg     config.MockConfig
	logger  *zap.Logger
	metrics http.Handler
	mu      sync.Mutex
	data    *Fixtures
	users   map[string][]byte
	router  *gin.Engine
	now     func() time.Time
	nextSeq int
}

// NewServer builds the mock backend around a fixture set.
func NewServer(cfg config.MockConfig, data *Fixtures, metricsHandler http.Handler, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if data == nil {
		data = SeedFixtures()
	}

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("water123"), bcrypt.DefaultCost)

	s := &Server{
		cfg:     cfg,
		logger:  log,
		metrics: metricsHandler,
		data:    data,
		users:   map[string][]byte{"admin": adminHash},
		now:     time.Now,
		nextSeq: 100,
	}
	s.router = s.buildRouter()
	return s
}

// Handler exposes the router for httptest servers.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until the listener fails.
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%d", s.cfg.Port))
}

func (s *Server) buildRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.GinMiddleware(s.logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics))
	}

	v1 := r.Group("/api/v1")
	v1.POST("/auth/login", s.login)

	authed := v1.Group("")
	authed.Use(s.requireAuth)

	authed.GET("/connections", s.listConnections)
	authed.GET("/connections/:id", s.getConnection)
	authed.POST("/connections/:id/approve", s.approveConnection)
	authed.PATCH("/connections/:id/reject", s.rejectConnection)
	authed.PATCH("/connections/:id/status", s.updateConnectionStatus)
	authed.DELETE("/connections/:id", s.deleteConnection)

	authed.GET("/residents", s.listResidents)
	authed.GET("/residents/:id", s.getResident)
	authed.PATCH("/residents/:id", s.updateResident)
	authed.PATCH("/residents/:id/archive", s.archiveResident)

	authed.GET("/personnel", s.listPersonnel)
	authed.GET("/personnel/:id", s.getPersonnel)
	authed.POST("/personnel", s.createPersonnel)
	authed.PATCH("/personnel/:id", s.updatePersonnel)
	authed.PATCH("/personnel/:id/status", s.updatePersonnelStatus)
	authed.PATCH("/personnel/:id/archive", s.archivePersonnel)

	authed.GET("/archive-requests", s.listArchives)
	authed.POST("/archive-requests/:id/approve", s.approveArchive)
	authed.PATCH("/archive-requests/:id/reject", s.rejectArchive)

	authed.GET("/bills", s.listBills)
	authed.GET("/bills/:id", s.getBill)
	authed.PATCH("/bills/:id/pay", s.payBill)
	authed.GET("/payments", s.listPayments)

	authed.GET("/incidents", s.listIncidents)
	authed.GET("/incidents/:id", s.getIncident)
	authed.PATCH("/incidents/:id/status", s.updateIncidentStatus)
	authed.PATCH("/incidents/:id/assign", s.assignIncident)

	authed.GET("/tasks", s.listTasks)
	authed.POST("/tasks", s.createTask)
	authed.PATCH("/tasks/:id/status", s.updateTaskStatus)
	authed.DELETE("/tasks/:id", s.deleteTask)

	authed.GET("/announcements", s.listAnnouncements)
	authed.POST("/announcements", s.createAnnouncement)
	authed.DELETE("/announcements/:id", s.deleteAnnouncement)

	return r
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"msg": msg})
}

func (s *Server) login(c *gin.Context) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "username and password are required")
		return
	}
	hash, ok := s.users[body.Username]
	if !ok || bcrypt.CompareHashAndPassword(hash, []byte(body.Password)) != nil {
		fail(c, http.StatusUnauthorized, "invalid username or password")
		return
	}

	claims := jwt.MapClaims{
		"sub": body.Username,
		"exp": s.now().Add(s.cfg.TokenTTL).Unix(),
		"iat": s.now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to sign token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (s *Server) requireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || raw == "" {
		fail(c, http.StatusUnauthorized, "missing bearer token")
		c.Abort()
		return
	}
	_, err := jwt.Parse(raw, func(*jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		fail(c, http.StatusUnauthorized, "invalid or expired token")
		c.Abort()
		return
	}
	c.Next()
}

// wire serializes a record the way the legacy backend does: canonical id
// moved to `_id`.
func wire(record interface{}) gin.H {
	raw, err := json.Marshal(record)
	if err != nil {
		return gin.H{}
	}
	fields := gin.H{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return gin.H{}
	}
	if id, ok := fields["id"]; ok {
		fields["_id"] = id
		delete(fields, "id")
	}
	return fields
}

func wireList[T any](items []T) []gin.H {
	out := make([]gin.H, 0, len(items))
	for _, item := range items {
		out = append(out, wire(item))
	}
	return out
}

func (s *Server) newID(prefix string) string {
	s.nextSeq++
	return fmt.Sprintf("%s-%03d", prefix, s.nextSeq)
}

func (s *Server) listConnections(c *gin.Context) {
	status := c.Query("status")
	zone := c.Query("zone")

	s.mu.Lock()
	defer s.mu.Unlock()
	matched := make([]models.Connection, 0, len(s.data.Connections))
	for _, conn := range s.data.Connections {
		if status != "" && string(conn.Status) != status {
			continue
		}
		if zone != "" && conn.Zone != zone {
			continue
		}
		matched = append(matched, conn)
	}
	c.JSON(http.StatusOK, gin.H{
		"connections": wireList(matched),
		"pagination":  models.Pagination{Page: 1, PerPage: len(matched), TotalCount: len(matched)},
	})
}

func (s *Server) getConnection(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, conn := range s.data.Connections {
		if conn.ID == c.Param("id") {
			c.JSON(http.StatusOK, gin.H{"connection": wire(conn)})
			return
		}
	}
	fail(c, http.StatusNotFound, "connection not found")
}

func (s *Server) approveConnection(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, conn := range s.data.Connections {
		if conn.ID != c.Param("id") {
			continue
		}
		if conn.Status != models.ConnectionStatusPending {
			fail(c, http.StatusBadRequest, "only pending connections can be approved")
			return
		}
		s.data.Connections[i].Status = models.ConnectionStatusApproved
		c.JSON(http.StatusOK, gin.H{"msg": "connection approved"})
		return
	}
	fail(c, http.StatusNotFound, "connection not found")
}

func (s *Server) rejectConnection(c *gin.Context) {
	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || len(strings.TrimSpace(body.Reason)) < dto.MinReasonLength {
		fail(c, http.StatusBadRequest, "rejection reason must be at least 10 characters")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, conn := range s.data.Connections {
		if conn.ID != c.Param("id") {
			continue
		}
		if conn.Status != models.ConnectionStatusPending {
			fail(c, http.StatusBadRequest, "only pending connections can be rejected")
			return
		}
		s.data.Connections[i].Status = models.ConnectionStatusRejected
		s.data.Connections[i].RejectReason = strings.TrimSpace(body.Reason)
		c.JSON(http.StatusOK, gin.H{"msg": "connection rejected"})
		return
	}
	fail(c, http.StatusNotFound, "connection not found")
}

func (s *Server) updateConnectionStatus(c *gin.Context) {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Status == "" {
		fail(c, http.StatusBadRequest, "status is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, conn := range s.data.Connections {
		if conn.ID == c.Param("id") {
			s.data.Connections[i].Status = models.ConnectionStatus(body.Status)
			c.JSON(http.StatusOK, gin.H{"msg": "status updated"})
			return
		}
	}
	fail(c, http.StatusNotFound, "connection not found")
}

func (s *Server) deleteConnection(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, conn := range s.data.Connections {
		if conn.ID == c.Param("id") {
			s.data.Connections = append(s.data.Connections[:i], s.data.Connections[i+1:]...)
			c.JSON(http.StatusOK, gin.H{"msg": "connection deleted"})
			return
		}
	}
	fail(c, http.StatusNotFound, "connection not found")
}

func (s *Server) listResidents(c *gin.Context) {
	status := c.Query("status")

	s.mu.Lock()
	defer s.mu.Unlock()
	matched := make([]models.Resident, 0, len(s.data.Residents))
	for _, res := range s.data.Residents {
		if status != "" && string(res.Status) != status {
			continue
		}
		matched = append(matched, res)
	}
	c.JSON(http.StatusOK, gin.H{"residents": wireList(matched)})
}

func (s *Server) getResident(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, res := range s.data.Residents {
		if res.ID == c.Param("id") {
			c.JSON(http.StatusOK, gin.H{"resident": wire(res)})
			return
		}
	}
	fail(c, http.StatusNotFound, "resident not found")
}

func (s *Server) updateResident(c *gin.Context) {
	var body struct {
		ContactNo string `json:"contactNo"`
		Email     string `json:"email"`
		Zone      string `json:"zone"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "invalid resident payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, res := range s.data.Residents {
		if res.ID != c.Param("id") {
			continue
		}
		if body.ContactNo != "" {
			s.data.Residents[i].ContactNo = body.ContactNo
		}
		if body.Email != "" {
			s.data.Residents[i].Email = body.Email
		}
		if body.Zone != "" {
			s.data.Residents[i].Zone = body.Zone
		}
		c.JSON(http.StatusOK, gin.H{"msg": "resident updated"})
		return
	}
	fail(c, http.StatusNotFound, "resident not found")
}

func (s *Server) archiveResident(c *gin.Context) {
	var body struct {
		Unarchive bool `json:"unarchive"`
	}
	_ = c.ShouldBindJSON(&body)

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, res := range s.data.Residents {
		if res.ID != c.Param("id") {
			continue
		}
		if body.Unarchive {
			s.data.Residents[i].Status = models.ResidentStatusActive
		} else {
			s.data.Residents[i].Status = models.ResidentStatusArchived
		}
		c.JSON(http.StatusOK, gin.H{"msg": "resident archive state updated"})
		return
	}
	fail(c, http.StatusNotFound, "resident not found")
}

func (s *Server) listPersonnel(c *gin.Context) {
	status := c.Query("status")

	s.mu.Lock()
	defer s.mu.Unlock()
	matched := make([]models.Personnel, 0, len(s.data.Personnel))
	for _, per := range s.data.Personnel {
		if status != "" && string(per.Status) != status {
			continue
		}
		matched = append(matched, per)
	}
	c.JSON(http.StatusOK, gin.H{"personnel": wireList(matched)})
}

func (s *Server) getPersonnel(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, per := range s.data.Personnel {
		if per.ID == c.Param("id") {
			c.JSON(http.StatusOK, gin.H{"personnel": wire(per)})
			return
		}
	}
	fail(c, http.StatusNotFound, "personnel not found")
}

func (s *Server) createPersonnel(c *gin.Context) {
	var body dto.CreatePersonnelRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "invalid personnel payload")
		return
	}
	if err := dto.Validate(body); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	per := models.Personnel{
		ID:        s.newID("per"),
		Name:      body.Name,
		Role:      models.PersonnelRole(body.Role),
		Zone:      body.Zone,
		ContactNo: body.ContactNo,
		Status:    models.PersonnelStatusActive,
		HiredAt:   s.now(),
	}
	s.data.Personnel = append(s.data.Personnel, per)
	c.JSON(http.StatusCreated, gin.H{"personnel": wire(per)})
}

func (s *Server) updatePersonnel(c *gin.Context) {
	var body struct {
		Zone      string `json:"zone"`
		ContactNo string `json:"contactNo"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "invalid personnel payload")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, per := range s.data.Personnel {
		if per.ID != c.Param("id") {
			continue
		}
		if body.Zone != "" {
			s.data.Personnel[i].Zone = body.Zone
		}
		if body.ContactNo != "" {
			s.data.Personnel[i].ContactNo = body.ContactNo
		}
		c.JSON(http.StatusOK, gin.H{"msg": "personnel updated"})
		return
	}
	fail(c, http.StatusNotFound, "personnel not found")
}

func (s *Server) archivePersonnel(c *gin.Context) {
	var body struct {
		Unarchive bool `json:"unarchive"`
	}
	_ = c.ShouldBindJSON(&body)

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, per := range s.data.Personnel {
		if per.ID != c.Param("id") {
			continue
		}
		if body.Unarchive {
			s.data.Personnel[i].Status = models.PersonnelStatusActive
		} else {
			s.data.Personnel[i].Status = models.PersonnelStatusArchived
		}
		c.JSON(http.StatusOK, gin.H{"msg": "personnel archive state updated"})
		return
	}
	fail(c, http.StatusNotFound, "personnel not found")
}

func (s *Server) updatePersonnelStatus(c *gin.Context) {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Status == "" {
		fail(c, http.StatusBadRequest, "status is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, per := range s.data.Personnel {
		if per.ID == c.Param("id") {
			s.data.Personnel[i].Status = models.PersonnelStatus(body.Status)
			c.JSON(http.StatusOK, gin.H{"msg": "status updated"})
			return
		}
	}
	fail(c, http.StatusNotFound, "personnel not found")
}

func (s *Server) listArchives(c *gin.Context) {
	target := c.Query("target")
	status := c.Query("status")

	s.mu.Lock()
	defer s.mu.Unlock()
	matched := make([]models.ArchiveRequest, 0, len(s.data.Archives))
	for _, req := range s.data.Archives {
		if target != "" && string(req.Target) != target {
			continue
		}
		if status != "" && string(req.Status) != status {
			continue
		}
		matched = append(matched, req)
	}
	c.JSON(http.StatusOK, gin.H{"requests": wireList(matched)})
}

func (s *Server) approveArchive(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, req := range s.data.Archives {
		if req.ID != c.Param("id") {
			continue
		}
		if req.Status != models.ArchiveStatusPending {
			fail(c, http.StatusBadRequest, "request already reviewed")
			return
		}
		now := s.now()
		reviewer := "admin"
		s.data.Archives[i].Status = models.ArchiveStatusApproved
		s.data.Archives[i].ReviewedBy = &reviewer
		s.data.Archives[i].ReviewedAt = &now
		c.JSON(http.StatusOK, gin.H{"msg": "archive request approved"})
		return
	}
	fail(c, http.StatusNotFound, "archive request not found")
}

func (s *Server) rejectArchive(c *gin.Context) {
	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || len(strings.TrimSpace(body.Reason)) < dto.MinReasonLength {
		fail(c, http.StatusBadRequest, "rejection reason must be at least 10 characters")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, req := range s.data.Archives {
		if req.ID != c.Param("id") {
			continue
		}
		if req.Status != models.ArchiveStatusPending {
			fail(c, http.StatusBadRequest, "request already reviewed")
			return
		}
		s.data.Archives[i].Status = models.ArchiveStatusRejected
		s.data.Archives[i].RejectReason = strings.TrimSpace(body.Reason)
		c.JSON(http.StatusOK, gin.H{"msg": "archive request rejected"})
		return
	}
	fail(c, http.StatusNotFound, "archive request not found")
}

func (s *Server) listBills(c *gin.Context) {
	period := c.Query("period")
	status := c.Query("status")

	s.mu.Lock()
	defer s.mu.Unlock()
	matched := make([]models.Bill, 0, len(s.data.Bills))
	for _, bill := range s.data.Bills {
		if period != "" && bill.Period != period {
			continue
		}
		if status != "" && string(bill.Status) != status {
			continue
		}
		matched = append(matched, bill)
	}
	c.JSON(http.StatusOK, gin.H{"bills": wireList(matched)})
}

func (s *Server) getBill(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, bill := range s.data.Bills {
		if bill.ID == c.Param("id") {
			c.JSON(http.StatusOK, gin.H{"bill": wire(bill)})
			return
		}
	}
	fail(c, http.StatusNotFound, "bill not found")
}

func (s *Server) payBill(c *gin.Context) {
	var body struct {
		Amount float64 `json:"amount"`
		Method string  `json:"method"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Amount <= 0 {
		fail(c, http.StatusBadRequest, "a positive amount is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, bill := range s.data.Bills {
		if bill.ID != c.Param("id") {
			continue
		}
		if bill.Status == models.BillStatusPaid {
			fail(c, http.StatusBadRequest, "bill is already settled")
			return
		}
		now := s.now()
		s.data.Bills[i].Status = models.BillStatusPaid
		s.data.Bills[i].PaidAt = &now
		s.data.Payments = append(s.data.Payments, models.Payment{
			ID:            s.newID("pay"),
			BillID:        bill.ID,
			AccountNumber: bill.AccountNumber,
			Amount:        body.Amount,
			Method:        body.Method,
			ReceivedBy:    "admin",
			PaidAt:        now,
		})
		c.JSON(http.StatusOK, gin.H{"msg": "bill settled"})
		return
	}
	fail(c, http.StatusNotFound, "bill not found")
}

func (s *Server) listPayments(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"payments": wireList(s.data.Payments)})
}

func (s *Server) listIncidents(c *gin.Context) {
	status := c.Query("status")

	s.mu.Lock()
	defer s.mu.Unlock()
	matched := make([]models.Incident, 0, len(s.data.Incidents))
	for _, inc := range s.data.Incidents {
		if status != "" && string(inc.Status) != status {
			continue
		}
		matched = append(matched, inc)
	}
	c.JSON(http.StatusOK, gin.H{"incidents": wireList(matched)})
}

func (s *Server) getIncident(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inc := range s.data.Incidents {
		if inc.ID == c.Param("id") {
			c.JSON(http.StatusOK, gin.H{"incident": wire(inc)})
			return
		}
	}
	fail(c, http.StatusNotFound, "incident not found")
}

func (s *Server) updateIncidentStatus(c *gin.Context) {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Status == "" {
		fail(c, http.StatusBadRequest, "status is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, inc := range s.data.Incidents {
		if inc.ID == c.Param("id") {
			s.data.Incidents[i].Status = models.IncidentStatus(body.Status)
			if body.Status == string(models.IncidentStatusResolved) {
				now := s.now()
				s.data.Incidents[i].ResolvedAt = &now
			}
			c.JSON(http.StatusOK, gin.H{"msg": "incident updated"})
			return
		}
	}
	fail(c, http.StatusNotFound, "incident not found")
}

func (s *Server) assignIncident(c *gin.Context) {
	var body struct {
		PersonnelID string `json:"personnelId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.PersonnelID == "" {
		fail(c, http.StatusBadRequest, "personnelId is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var assignee string
	for _, per := range s.data.Personnel {
		if per.ID == body.PersonnelID {
			assignee = per.Name
			break
		}
	}
	if assignee == "" {
		fail(c, http.StatusNotFound, "personnel not found")
		return
	}
	for i, inc := range s.data.Incidents {
		if inc.ID == c.Param("id") {
			s.data.Incidents[i].AssignedTo = assignee
			s.data.Incidents[i].Status = models.IncidentStatusInProgress
			c.JSON(http.StatusOK, gin.H{"msg": "incident assigned"})
			return
		}
	}
	fail(c, http.StatusNotFound, "incident not found")
}

func (s *Server) listTasks(c *gin.Context) {
	status := c.Query("status")

	s.mu.Lock()
	defer s.mu.Unlock()
	matched := make([]models.Task, 0, len(s.data.Tasks))
	for _, task := range s.data.Tasks {
		if status != "" && string(task.Status) != status {
			continue
		}
		matched = append(matched, task)
	}
	c.JSON(http.StatusOK, gin.H{"tasks": wireList(matched)})
}

func (s *Server) createTask(c *gin.Context) {
	var body dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "invalid task payload")
		return
	}
	if err := dto.Validate(body); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	task := models.Task{
		ID:           s.newID("tsk"),
		Title:        body.Title,
		Kind:         body.Kind,
		Zone:         body.Zone,
		AssignedTo:   body.AssignedTo,
		Status:       models.TaskStatusScheduled,
		ScheduledFor: body.ScheduledFor,
		CreatedAt:    s.now(),
	}
	s.data.Tasks = append(s.data.Tasks, task)
	c.JSON(http.StatusCreated, gin.H{"task": wire(task)})
}

func (s *Server) updateTaskStatus(c *gin.Context) {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Status == "" {
		fail(c, http.StatusBadRequest, "status is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, task := range s.data.Tasks {
		if task.ID == c.Param("id") {
			s.data.Tasks[i].Status = models.TaskStatus(body.Status)
			c.JSON(http.StatusOK, gin.H{"msg": "task updated"})
			return
		}
	}
	fail(c, http.StatusNotFound, "task not found")
}

func (s *Server) deleteTask(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, task := range s.data.Tasks {
		if task.ID == c.Param("id") {
			s.data.Tasks = append(s.data.Tasks[:i], s.data.Tasks[i+1:]...)
			c.JSON(http.StatusOK, gin.H{"msg": "task deleted"})
			return
		}
	}
	fail(c, http.StatusNotFound, "task not found")
}

func (s *Server) listAnnouncements(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Announcements kept the legacy generic envelope.
	c.JSON(http.StatusOK, gin.H{"data": wireList(s.data.Announcements)})
}

func (s *Server) createAnnouncement(c *gin.Context) {
	var body dto.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "invalid announcement payload")
		return
	}
	if err := dto.Validate(body); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ann := models.Announcement{
		ID:       s.newID("ann"),
		Title:    body.Title,
		Body:     body.Body,
		PostedBy: "admin",
		PostedAt: s.now(),
	}
	s.data.Announcements = append(s.data.Announcements, ann)
	c.JSON(http.StatusCreated, gin.H{"data": wire(ann)})
}

func (s *Server) deleteAnnouncement(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, ann := range s.data.Announcements {
		if ann.ID == c.Param("id") {
			s.data.Announcements = append(s.data.Announcements[:i], s.data.Announcements[i+1:]...)
			c.JSON(http.StatusOK, gin.H{"msg": "announcement deleted"})
			return
		}
	}
	fail(c, http.StatusNotFound, "announcement not found")
}
