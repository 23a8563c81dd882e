package http

import (
	"html/template"
	"net/url"

	"github.com/atinyakov/CourseKeeper/internal/models"
	"github.com/atinyakov/CourseKeeper/internal/session"
)

type loginView struct {
	Notices []session.Notice
}

type catalogView struct {
	Codes       []string
	Selected    string
	Course      models.Course
	HasCourse   bool
	Attachments []string
	HasFolder   bool
	Notices     []session.Notice
}

var funcs = template.FuncMap{
	"pathEscape": url.PathEscape,
}

var (
	loginPage   = template.Must(template.New("page").Funcs(funcs).Parse(layoutTpl + loginTpl))
	catalogPage = template.Must(template.New("page").Funcs(funcs).Parse(layoutTpl + catalogTpl))
)

const layoutTpl = `{{define "layout"}}<!doctype html>
<html lang="es">
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width, initial-scale=1" />
<title>Cursos</title>
<style>
body{font-family:system-ui,-apple-system,Segoe UI,Roboto;max-width:1000px;margin:0 auto;padding:1rem}
.notice{padding:8px 12px;border-radius:6px;margin-bottom:8px}
.notice.success{background:#e8f6ec;border:1px solid #9fd5ae}
.notice.error{background:#fdecec;border:1px solid #eba5a5}
.grid{display:grid;grid-template-columns:1fr 1fr;gap:12px}
textarea{width:100%;min-height:150px;font-family:monospace;font-size:14px}
ul{padding-left:1.2rem}
</style>
{{range .Notices}}<div class="notice {{.Level}}" role="status">{{.Message}}</div>{{end}}
{{template "content" .}}
</html>
{{end}}`

const loginTpl = `{{define "content"}}
<h2 style="text-align:center">Bienvenido</h2>
<form method="post" action="/login" style="max-width:400px;margin:50px auto;text-align:center">
  <p><label>Usuario: <input type="text" name="user" autocomplete="username" /></label></p>
  <p><label>Contraseña: <input type="password" name="password" autocomplete="current-password" /></label></p>
  <button type="submit">Login</button>
</form>
{{end}}`

const catalogTpl = `{{define "content"}}
<h3>Base de Datos de Cursos</h3>
<form method="post" action="/select">
  <label>Seleccione un curso:
    <select name="code" onchange="this.form.submit()">
    {{range .Codes}}<option value="{{.}}"{{if eq . $.Selected}} selected{{end}}>{{.}}</option>{{end}}
    </select>
  </label>
  <noscript><button type="submit">Ver</button></noscript>
</form>
{{if .HasCourse}}{{with .Course}}
<div class="grid">
  <p><b>Codificación:</b> {{.Code}}</p>
  <p><b>Estado:</b> {{.Status}}</p>
  <p><b>Título (ES):</b> {{.TitleES}}</p>
  <p><b>Título (EN):</b> {{.TitleEN}}</p>
  <p><b>Créditos:</b> {{.Credits}} &middot; <b>Horas Contacto:</b> {{.ContactHours}}</p>
  <p><b>Año:</b> {{.Year}} | <b>Semestre:</b> {{.Semester}}</p>
</div>
<hr/>
<form method="post" action="/commit">
  <div class="grid">
    <div><h5>Descripción del Curso</h5><textarea name="description">{{.Description}}</textarea></div>
    <div><h5>Comentarios</h5><textarea name="comments">{{.Comments}}</textarea></div>
  </div>
  <button type="submit">Guardar cambios</button>
</form>
<hr/>
<h5>Archivos disponibles</h5>
{{end}}
{{if .Attachments}}
<ul>
{{range .Attachments}}<li><a href="/files/{{pathEscape $.Course.Code}}/{{pathEscape .}}" download="{{.}}">Descargar {{.}}</a></li>{{end}}
</ul>
{{else if .HasFolder}}<p>No hay archivos disponibles.</p>
{{else}}<p>No se encontraron archivos.</p>{{end}}
{{end}}
{{end}}`
