package web

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"adjja/internal/adapters/http/middleware"
	courseDomain "adjja/internal/domain/course"
)

// handleCourses handles GET (list) and POST (create) for /api/courses
// Students only see published courses; coaches and admins see everything.
func handleCourses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		listCourses(w, r)
	case "POST":
		createCourse(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listCourses(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetSessionFromContext(r.Context()); !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}
	publishedOnly := !middleware.IsCoachOrAdmin(r.Context())
	courses, err := stores.CourseStore.List(r.Context(), publishedOnly)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSONList(w, courses)
}

func createCourse(w http.ResponseWriter, r *http.Request) {
	session, ok := requireStaff(w, r)
	if !ok {
		return
	}

	var input struct {
		Title       string `json:"Title"`
		Description string `json:"Description"`
		Belt        string `json:"Belt"`
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		r.ParseForm()
		input.Title = r.FormValue("Title")
		input.Description = r.FormValue("Description")
		input.Belt = r.FormValue("Belt")
	} else if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	course := courseDomain.Course{
		ID:          generateID(),
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Belt:        strings.TrimSpace(input.Belt),
		Published:   false,
		CreatedBy:   session.AccountID,
		CreatedAt:   timeNow(),
	}
	if err := course.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := stores.CourseStore.Save(r.Context(), course); err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, course)
}

// handleCourseDetail handles GET /api/courses/detail?id=<id>
// Returns the course with its description rendered to HTML and its
// videos in position order. Students cannot see unpublished courses.
func handleCourseDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := middleware.GetSessionFromContext(r.Context()); !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}

	course, err := stores.CourseStore.GetByID(r.Context(), id)
	if err != nil {
		http.Error(w, "course not found", http.StatusNotFound)
		return
	}
	if !course.Published && !middleware.IsCoachOrAdmin(r.Context()) {
		http.Error(w, "course not found", http.StatusNotFound)
		return
	}

	videos, err := stores.VideoStore.ListVideosByCourse(r.Context(), id)
	if err != nil {
		internalError(w, err)
		return
	}
	sort.Slice(videos, func(i, j int) bool { return videos[i].Position < videos[j].Position })

	writeJSON(w, http.StatusOK, map[string]any{
		"Course":          course,
		"DescriptionHTML": renderMarkdown(course.Description),
		"Videos":          videos,
	})
}

// handleCoursePublish handles POST /api/courses/publish
func handleCoursePublish(w http.ResponseWriter, r *http.Request) {
	courseStatusChange(w, r, func(c *courseDomain.Course) error { return c.Publish() })
}

// handleCourseUnpublish handles POST /api/courses/unpublish
func handleCourseUnpublish(w http.ResponseWriter, r *http.Request) {
	courseStatusChange(w, r, func(c *courseDomain.Course) error { return c.Unpublish() })
}

func courseStatusChange(w http.ResponseWriter, r *http.Request, change func(*courseDomain.Course) error) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	var input struct {
		CourseID string `json:"CourseID"`
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		r.ParseForm()
		input.CourseID = r.FormValue("CourseID")
	} else {
		strictDecode(r, &input)
	}
	if input.CourseID == "" {
		http.Error(w, "CourseID is required", http.StatusBadRequest)
		return
	}

	course, err := stores.CourseStore.GetByID(r.Context(), input.CourseID)
	if err != nil {
		http.Error(w, "course not found", http.StatusNotFound)
		return
	}
	if err := change(&course); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := stores.CourseStore.Save(r.Context(), course); err != nil {
		internalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCourseDelete handles POST /api/courses/delete
// Deleting a course also removes its videos.
func handleCourseDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	var input struct {
		CourseID string `json:"CourseID"`
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		r.ParseForm()
		input.CourseID = r.FormValue("CourseID")
	} else {
		strictDecode(r, &input)
	}
	if input.CourseID == "" {
		http.Error(w, "CourseID is required", http.StatusBadRequest)
		return
	}

	if _, err := stores.CourseStore.GetByID(r.Context(), input.CourseID); err != nil {
		http.Error(w, "course not found", http.StatusNotFound)
		return
	}
	if err := stores.CourseStore.Delete(r.Context(), input.CourseID); err != nil {
		internalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCourseVideos handles POST (add) for /api/courses/videos
func handleCourseVideos(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	var input struct {
		CourseID   string `json:"CourseID"`
		Title      string `json:"Title"`
		YouTubeURL string `json:"YouTubeURL"`
		Position   int    `json:"Position"`
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		r.ParseForm()
		input.CourseID = r.FormValue("CourseID")
		input.Title = r.FormValue("Title")
		input.YouTubeURL = r.FormValue("YouTubeURL")
		input.Position, _ = strconv.Atoi(r.FormValue("Position"))
	} else if err := strictDecode(r, &input); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if _, err := stores.CourseStore.GetByID(r.Context(), input.CourseID); err != nil {
		http.Error(w, "course not found", http.StatusNotFound)
		return
	}

	video := courseDomain.Video{
		ID:         generateID(),
		CourseID:   input.CourseID,
		Title:      strings.TrimSpace(input.Title),
		YouTubeURL: strings.TrimSpace(input.YouTubeURL),
		Position:   input.Position,
	}
	if err := video.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := video.ExtractYouTubeID(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := stores.VideoStore.SaveVideo(r.Context(), video); err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, video)
}

// handleCourseVideoDelete handles POST /api/courses/videos/delete
func handleCourseVideoDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if _, ok := requireStaff(w, r); !ok {
		return
	}

	var input struct {
		VideoID string `json:"VideoID"`
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		r.ParseForm()
		input.VideoID = r.FormValue("VideoID")
	} else {
		strictDecode(r, &input)
	}
	if input.VideoID == "" {
		http.Error(w, "VideoID is required", http.StatusBadRequest)
		return
	}

	if _, err := stores.VideoStore.GetVideoByID(r.Context(), input.VideoID); err != nil {
		http.Error(w, "video not found", http.StatusNotFound)
		return
	}
	if err := stores.VideoStore.DeleteVideo(r.Context(), input.VideoID); err != nil {
		internalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
