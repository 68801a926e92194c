package main

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"finitefield.org/aire-web/internal/handlers"
	mw "finitefield.org/aire-web/internal/middleware"
	"finitefield.org/aire-web/internal/observability"
	"finitefield.org/aire-web/internal/seo"
	"finitefield.org/aire-web/internal/story"
)

// session returns the visitor's story state. Callers must Unlock it.
func (a *app) session(r *http.Request) *story.Session {
	s := a.sessions.Get(mw.GetSession(r).ID)
	s.Lock()
	return s
}

func (a *app) pageData(r *http.Request, s *story.Session) handlers.PageData {
	in := a.storyInput(s.Locale, s.Tracker.Active(), s.Expanded())
	in.CSRFToken = mw.CSRFToken(r)
	return handlers.BuildStoryData(in)
}

// handlePage renders the story from the top. A page load always starts
// over: index 0, nothing expanded, locale from hl or the default.
func (a *app) handlePage(w http.ResponseWriter, r *http.Request) {
	s := a.session(r)
	s.Remount(mw.Lang(r))
	vm := a.pageData(r, s)
	s.Unlock()
	render(w, r, vm)
}

// handleScroll feeds one scroll observation to the tracker. It answers 204
// when the active section did not change so htmx leaves the stage alone.
func (a *app) handleScroll(w http.ResponseWriter, r *http.Request) {
	obs, err := parseObservation(r)
	if err != nil {
		a.metrics.Scroll("invalid")
		observability.FromContext(r.Context()).Debug("rejecting scroll observation", zap.Error(err))
		mw.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	s := a.session(r)
	defer s.Unlock()
	_, changed := s.Tracker.Observe(obs)
	if !changed {
		a.metrics.Scroll("unchanged")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	a.metrics.Scroll("changed")
	renderTemplate(w, r, "stage-update", a.pageData(r, s))
}

func parseObservation(r *http.Request) (story.Observation, error) {
	if err := r.ParseForm(); err != nil {
		return story.Observation{}, err
	}
	y, err := story.ParseCoordinate(r.PostForm.Get("y"))
	if err != nil {
		return story.Observation{}, errors.New("y must be a finite number")
	}
	vh, err := story.ParseCoordinate(r.PostForm.Get("vh"))
	if err != nil {
		return story.Observation{}, errors.New("vh must be a finite number")
	}
	boxes, err := story.ParseLayout(r.PostForm.Get("layout"))
	if err != nil {
		return story.Observation{}, err
	}
	return story.Observation{ScrollY: y, ViewportHeight: vh, Boxes: boxes}, nil
}

// handleToggle expands a pollution source, or collapses it when it is
// already expanded, and re-renders the sources chart.
func (a *app) handleToggle(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "category")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	c, err := story.ParseCategory(name)
	if err != nil {
		mw.WriteError(w, r, http.StatusNotFound, err.Error())
		return
	}
	s := a.session(r)
	defer s.Unlock()
	s.Details.Toggle(c)

	idx, _ := a.renderer.Content().IndexOf(story.VisPie)
	vm := a.pageData(r, s)
	renderTemplate(w, r, "sources", vm.Vis(a.renderer.Section(s.Locale, idx, s.Expanded())))
}

// handleLocale switches the visitor's language and re-renders the page body.
func (a *app) handleLocale(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		mw.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	s := a.session(r)
	defer s.Unlock()
	if err := s.Locale.SetLocale(r.PostForm.Get("locale")); err != nil {
		// only i18n.ErrUnsupportedLocale can come back here
		mw.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	target := seo.LocalizedURL("", s.Locale.Locale())
	if !mw.IsHTMX(r.Context()) {
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}
	vm := a.pageData(r, s)
	mw.PushURL(w, target)
	renderTemplate(w, r, "page-fragment", vm)
}

// handleSection renders the stage for one section without moving the
// tracker. Out-of-range indices clamp.
func (a *app) handleSection(w http.ResponseWriter, r *http.Request) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		mw.WriteError(w, r, http.StatusBadRequest, "index must be an integer")
		return
	}
	s := a.session(r)
	defer s.Unlock()
	vm := a.pageData(r, s)
	vm.Story.Active = a.renderer.Section(s.Locale, i, s.Expanded())
	renderTemplate(w, r, "stage", vm)
}

type datasetsResponse struct {
	story.Datasets
	Percentages []int `json:"sourcePercentages"`
}

func (a *app) handleDatasets(w http.ResponseWriter, r *http.Request) {
	ds := a.renderer.Content().Datasets
	mw.WriteJSON(w, http.StatusOK, datasetsResponse{Datasets: ds, Percentages: story.Percentages(ds.Sources)})
}

func (a *app) handleDataset(w http.ResponseWriter, r *http.Request) {
	v, err := a.renderer.Content().Datasets.Named(chi.URLParam(r, "name"))
	if errors.Is(err, story.ErrUnknownDataset) {
		mw.WriteError(w, r, http.StatusNotFound, err.Error())
		return
	} else if err != nil {
		mw.WriteError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	mw.WriteJSON(w, http.StatusOK, v)
}
