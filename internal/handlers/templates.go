package handlers

import "html/template"

const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Cities</title>
</head>
<body>
  <div>
    <form method="get" action="/">
      <input type="text" name="q" placeholder="Search cities..." value="{{.SearchTerm}}" autofocus>
    </form>
    <table>
      <thead>
        <tr>
          <th>City Name</th>
          <th>Country</th>
          <th>Timezone</th>
        </tr>
      </thead>
      <tbody>
        {{- range .Cities}}
        <tr id="city-{{.Key}}">
          <td>
            <form method="post" action="/select/{{.Key}}">
              <button type="submit">{{.Name}}</button>
            </form>
          </td>
          <td>{{.Country}}</td>
          <td>{{.Timezone}}</td>
        </tr>
        {{- end}}
      </tbody>
    </table>
    {{- if .ShowDetail}}
    <div id="detail">
      <h2>{{.SelectedCity.Name}}</h2>
      <p>Temperature: {{.Weather.Temperature}}°C</p>
      <p>Description: {{.Weather.Description}}</p>
      <p>Humidity: {{.Weather.Humidity}}%</p>
      <p>Wind Speed: {{.Weather.WindSpeed}} m/s</p>
      <p>Pressure: {{.Weather.Pressure}} hPa</p>
    </div>
    {{- end}}
  </div>
</body>
</html>
`

// Templates returns the HTML templates used by PageHandler.
func Templates() *template.Template {
	return template.Must(template.New("index.html").Parse(indexTemplate))
}
