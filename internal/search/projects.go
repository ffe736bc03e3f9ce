package search

import (
	"strings"
	"time"

	"pomodoroTracker/internal/models/project"
	"pomodoroTracker/internal/progress"
)

const SortName = "name"

type ProjectFilter struct {
	Status  *project.Status
	Overdue *bool
}

type ProjectQuery struct {
	Text   string
	Filter ProjectFilter
	Sort   Sort
	Pagination
}

var projectSortKeys = map[string]less[*project.Project]{
	SortName: func(a, b *project.Project) bool {
		return lessFold(a.Name, b.Name)
	},
	SortTitle: func(a, b *project.Project) bool {
		return lessFold(a.Name, b.Name)
	},
	SortStatus: func(a, b *project.Project) bool {
		return a.Status < b.Status
	},
	SortDueDate: func(a, b *project.Project) bool {
		return lessOptionalTime(a.DueDate, b.DueDate)
	},
	SortCreatedAt: func(a, b *project.Project) bool {
		return a.CreatedAt.Before(b.CreatedAt)
	},
	SortUpdatedAt: func(a, b *project.Project) bool {
		return a.LastModified().Before(b.LastModified())
	},
}

func Projects(projects []*project.Project, q ProjectQuery, now time.Time) (Page[*project.Project], error) {
	if err := validatePagination(q.Pagination); err != nil {
		return Page[*project.Project]{}, err
	}
	cmp, desc, err := resolveSort(q.Sort, projectSortKeys, SortCreatedAt)
	if err != nil {
		return Page[*project.Project]{}, err
	}

	text := strings.ToLower(strings.TrimSpace(q.Text))

	matched := make([]*project.Project, 0, len(projects))
	for _, p := range projects {
		if p == nil {
			continue
		}
		if text != "" && !containsFold(p.Name, text) && !containsFold(p.Description, text) {
			continue
		}
		if q.Filter.Status != nil && p.Status != *q.Filter.Status {
			continue
		}
		if q.Filter.Overdue != nil && progress.IsOverdueRisk(p, now) != *q.Filter.Overdue {
			continue
		}
		matched = append(matched, p)
	}

	return paginate(matched, cmp, desc, q.Pagination), nil
}
