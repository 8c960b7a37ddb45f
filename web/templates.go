package web

import (
	"fmt"
	"html/template"

	"github.com/amonks/daybook/category"
	"github.com/amonks/daybook/internal/day"
	"github.com/amonks/daybook/summary"
)

func newTemplates() *template.Template {
	funcs := template.FuncMap{
		"categoryName":  categoryName,
		"categoryColor": func(index category.Index, id string) string { return index.Color(id) },
		"percent":       func(rate float64) string { return fmt.Sprintf("%.0f%%", rate*100) },
		"formatDate":    formatDate,
		"formatScore":   formatScore,
		"goalProgress":  goalProgress,
	}
	return template.Must(template.New("page").Funcs(funcs).Parse(pageTemplate))
}

func categoryName(index category.Index, id string) string {
	if name := index.Name(id); name != "" {
		return name
	}
	return "-"
}

func formatDate(d day.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.String()
}

func formatScore(value float64) string {
	if value == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f", value)
}

func goalProgress(status summary.GoalStatus) string {
	return fmt.Sprintf("%d/%d", status.Progress, status.Goal.Frequency)
}

const pageTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Daybook {{.Date}}</title>
  <style>
    :root {
      color-scheme: light;
    }
    body {
      margin: 0;
      font-family: "Charter", "Georgia", serif;
      color: #2b2520;
      background: radial-gradient(circle at top left, #f4efe3 0%, #fcfaf6 55%, #f6f2e8 100%);
    }
    header {
      padding: 16px 24px;
      border-bottom: 1px solid #d7cdbd;
      background: rgba(255, 255, 255, 0.72);
    }
    header h1 {
      margin: 0 0 4px 0;
      font-size: 20px;
      letter-spacing: 0.02em;
    }
    .progress {
      color: #72685f;
      font-size: 14px;
    }
    main {
      display: grid;
      grid-template-columns: repeat(auto-fit, minmax(280px, 1fr));
      gap: 18px;
      padding: 18px 24px 28px;
    }
    .pane {
      background: #ffffff;
      border: 1px solid #d7cdbd;
      border-radius: 14px;
      box-shadow: 0 8px 24px rgba(60, 45, 30, 0.08);
      padding: 16px;
    }
    .pane h2 {
      margin: 0 0 12px 0;
      font-size: 16px;
    }
    .item-list {
      list-style: none;
      padding: 0;
      margin: 0;
      display: flex;
      flex-direction: column;
      gap: 8px;
    }
    .item-title {
      font-weight: 600;
    }
    .item-meta {
      color: #72685f;
      font-size: 12px;
    }
    .done .item-title {
      text-decoration: line-through;
      color: #8a8078;
    }
    .swatch {
      display: inline-block;
      width: 10px;
      height: 10px;
      border-radius: 3px;
      margin-right: 4px;
    }
    .notice {
      margin: 12px 24px 0;
      padding: 10px 14px;
      border-radius: 10px;
      background: #f4d7d2;
      border: 1px solid #d7a7a1;
    }
    button {
      padding: 4px 10px;
      border-radius: 8px;
      border: 1px solid #bfb3a2;
      background: #efe6d7;
      font-family: inherit;
      cursor: pointer;
    }
    input[type="text"],
    select {
      padding: 6px 8px;
      border-radius: 8px;
      border: 1px solid #cbbfae;
      font-family: inherit;
      background: #fffdf9;
    }
    .empty {
      color: #8a8078;
      font-style: italic;
    }
  </style>
</head>
<body>
  <header>
    <h1>Daybook {{.Date}}</h1>
    <div class="progress">{{len .Snapshot.Summary.Completed}}/{{len .Snapshot.Summary.Scheduled}} done ({{percent .Snapshot.Summary.CompletionRate}}){{if .Snapshot.Overdue}}, {{.Snapshot.Overdue}} overdue{{end}}</div>
  </header>
  {{if .Notice}}<div class="notice">{{.Notice}}</div>{{end}}
  <main>
    <section class="pane">
      <h2>Tasks</h2>
      {{if or .Open .Done}}
      <ul class="item-list">
        {{range .Open}}
        <li>
          <form method="post" action="/web/tasks/set">
            <input type="hidden" name="id" value="{{.ID}}">
            <input type="hidden" name="date" value="{{$.Date}}">
            <input type="hidden" name="completed" value="true">
            <button type="submit">Done</button>
            <span class="item-title">{{.Info.Name}}</span>
            <span class="item-meta"><span class="swatch" style="background: {{categoryColor $.Categories .Info.CategoryID}}"></span>{{categoryName $.Categories .Info.CategoryID}} &middot; {{.Priority}} &middot; due {{formatDate .DueDate}}</span>
          </form>
        </li>
        {{end}}
        {{range .Done}}
        <li class="done">
          <form method="post" action="/web/tasks/set">
            <input type="hidden" name="id" value="{{.ID}}">
            <input type="hidden" name="date" value="{{$.Date}}">
            <input type="hidden" name="completed" value="false">
            <button type="submit">Reopen</button>
            <span class="item-title">{{.Info.Name}}</span>
            <span class="item-meta">{{categoryName $.Categories .Info.CategoryID}}</span>
          </form>
        </li>
        {{end}}
      </ul>
      {{else}}
      <p class="empty">Nothing scheduled.</p>
      {{end}}
      <form method="post" action="/web/tasks/promote">
        <input type="text" name="template" placeholder="template id">
        <select name="priority">
          {{range .Priorities}}<option value="{{.}}"{{if eq (print .) "medium"}} selected{{end}}>{{.}}</option>{{end}}
        </select>
        <button type="submit">Add to today</button>
      </form>
    </section>
    <section class="pane">
      <h2>Goals</h2>
      {{if .Snapshot.Goals}}
      <ul class="item-list">
        {{range .Snapshot.Goals}}
        <li>
          <span class="item-title">{{.Goal.Info.Name}}</span>
          <span class="item-meta">{{goalProgress .}} this {{.Goal.Period}}{{if .Achieved}} &middot; achieved{{end}}</span>
        </li>
        {{end}}
      </ul>
      {{else}}
      <p class="empty">No active goals.</p>
      {{end}}
    </section>
    <section class="pane">
      <h2>Events</h2>
      {{if .Snapshot.Events}}
      <ul class="item-list">
        {{range .Snapshot.Events}}
        <li>
          <span class="item-title">{{.Info.Name}}</span>
          <span class="item-meta">{{formatDate .Date}}{{if .EndDate.IsZero}}{{else}} to {{formatDate .EndDate}}{{end}}{{if .Location}} &middot; {{.Location}}{{end}}</span>
        </li>
        {{end}}
      </ul>
      {{else}}
      <p class="empty">No events.</p>
      {{end}}
    </section>
    <section class="pane">
      <h2>Wellness</h2>
      {{with .Snapshot.Wellness}}
      {{if .Entries}}
      <dl>
        <dt>Mood</dt><dd>{{formatScore .Mood}}</dd>
        <dt>Energy</dt><dd>{{formatScore .Energy}}</dd>
        <dt>Stress</dt><dd>{{formatScore .Stress}}</dd>
        <dt>Sleep</dt><dd>{{formatScore .SleepHours}}</dd>
      </dl>
      {{else}}
      <p class="empty">Nothing logged.</p>
      {{end}}
      {{end}}
    </section>
  </main>
</body>
</html>
`
