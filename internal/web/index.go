package web

// The companion page is intentionally one self-contained document; the
// panel should not serve an asset pipeline.
var indexPage = []byte(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>paneld</title>
<style>
  body { font-family: monospace; background: #1a1a1a; color: #e8e8e8; margin: 2rem; }
  h1 { color: #ff8c42; }
  table { border-collapse: collapse; margin-bottom: 1.5rem; }
  td { padding: 0.2rem 1rem 0.2rem 0; }
  td:first-child { color: #9a9a9a; }
  button { background: #ff8c42; border: 0; padding: 0.4rem 1rem; font-family: inherit; cursor: pointer; }
</style>
</head>
<body>
<h1>paneld</h1>
<table id="status"></table>
<button onclick="fetch('/api/restart', {method: 'POST'})">Restart</button>
<button onclick="fetch('/api/update', {method: 'POST'})">Update</button>
<script>
const rows = {
  version: s => s.version,
  screen: s => s.screen,
  theme: s => s.theme_name,
  cpu: s => s.sample.cpu_percent.toFixed(0) + '%',
  memory: s => s.sample.mem_percent.toFixed(0) + '%',
  temperature: s => s.sample.temp_c.toFixed(1) + ' C',
  battery: s => s.sample.battery_pct + '%',
  network: s => (s.network.ssid || s.network.interface) + ' ' + s.network.ip,
};

function render(status) {
  const table = document.getElementById('status');
  table.innerHTML = '';
  for (const [label, fn] of Object.entries(rows)) {
    const tr = table.insertRow();
    tr.insertCell().textContent = label;
    tr.insertCell().textContent = fn(status);
  }
}

const ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/ws');
ws.onmessage = ev => render(JSON.parse(ev.data));
fetch('/api/status').then(r => r.json()).then(render);
</script>
</body>
</html>
`)
