package monitoring

import "time"

// Exit causes
const (
	CauseExited     = "exited"
	CauseTerminated = "terminated"
)

// RecordTreeLoad counts a directory listing.
func (m *Metrics) RecordTreeLoad(err error) {
	if m == nil {
		return
	}
	m.TreeLoads.Inc()
	if err != nil {
		m.TreeLoadErrors.Inc()
	}
}

// RecordFavoritesSave counts a save attempt and refreshes the size gauge.
func (m *Metrics) RecordFavoritesSave(count int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.FavoritesSaveErrors.Inc()
		return
	}
	m.FavoritesSaves.Inc()
	m.FavoritesCount.Set(float64(count))
}

// RecordFavoritesLoad refreshes the size gauge after a load.
func (m *Metrics) RecordFavoritesLoad(count int, reset bool) {
	if m == nil {
		return
	}
	if reset {
		m.FavoritesLoadResets.Inc()
	}
	m.FavoritesCount.Set(float64(count))
}

// RecordSpawn records a shell start attempt.
func (m *Metrics) RecordSpawn(started time.Time, restart bool, err error) {
	if m == nil {
		return
	}
	m.SpawnDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		m.SpawnFailures.Inc()
		return
	}
	m.SessionsSpawned.Inc()
	m.SessionsActive.Inc()
	if restart {
		m.SessionRestarts.Inc()
	}
}

// RecordExit records a Running -> Terminated transition.
func (m *Metrics) RecordExit(cause string) {
	if m == nil {
		return
	}
	m.SessionsActive.Dec()
	m.SessionExits.WithLabelValues(cause).Inc()
}

// RecordDirectoryChange counts a live directory update.
func (m *Metrics) RecordDirectoryChange() {
	if m == nil {
		return
	}
	m.DirectoryChanges.Inc()
}

// RecordStaleEvent counts an event dropped for an outdated process.
func (m *Metrics) RecordStaleEvent() {
	if m == nil {
		return
	}
	m.EventsDropped.Inc()
}

// RecordStatusRequest records one request to the status listener.
func (m *Metrics) RecordStatusRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.StatusRequests.WithLabelValues(method, path, status).Inc()
	m.StatusDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}
