package web

// Single-page dashboard: stat cards fed by the SSE snapshot stream.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>cryptofolio</title>
  <style>
    body {
      margin: 0;
      padding: 2rem;
      background: #111;
      color: #eee;
      font-family: 'Space Mono', 'JetBrains Mono', monospace;
    }
    h1 { font-size: 1.1rem; letter-spacing: .2em; color: #7D56F4; }
    .cards { display: flex; flex-wrap: wrap; gap: 1rem; margin-bottom: 2rem; }
    .card {
      border: 1px solid #383838;
      border-radius: 8px;
      padding: 1rem 1.5rem;
      min-width: 180px;
    }
    .card .title { font-size: .7rem; color: #9c9c9c; letter-spacing: .15em; }
    .card .value { font-size: 1.4rem; margin-top: .4rem; transition: opacity .3s; }
    .card .value.updating { opacity: .35; }
    .card .delta { font-size: .8rem; margin-top: .2rem; }
    .gain { color: #73F59F; }
    .loss { color: #F57373; }
    table { border-collapse: collapse; width: 100%; font-size: .8rem; }
    th, td { text-align: left; padding: .4rem .8rem; border-bottom: 1px solid #2a2a2a; }
    th { color: #7D56F4; }
    #updated { color: #9c9c9c; font-size: .7rem; margin-top: 1.5rem; }
  </style>
</head>
<body>
  <h1>CRYPTOFOLIO</h1>
  <div class="cards">
    <div class="card"><div class="title">TOTAL VALUE</div><div class="value" id="total_value">—</div><div class="delta" id="total_pct"></div></div>
    <div class="card"><div class="title">INVESTED</div><div class="value" id="total_invested">—</div><div class="delta" id="profit_loss"></div></div>
    <div class="card"><div class="title">LIVE P/L</div><div class="value" id="profit_total">—</div><div class="delta" id="profit_percent"></div></div>
    <div class="card"><div class="title">24H CHANGE</div><div class="value" id="daily_change">—</div></div>
    <div class="card"><div class="title">BTC PRICE</div><div class="value" id="btc_price">—</div></div>
    <div class="card"><div class="title">ETH PRICE</div><div class="value" id="eth_price">—</div></div>
  </div>
  <table>
    <thead><tr><th>DATE</th><th>COIN</th><th>TYPE</th><th>AMOUNT</th><th>PRICE</th></tr></thead>
    <tbody id="txs"></tbody>
  </table>
  <div id="updated"></div>
  <script>
    const fmt = (v) => '$' + Number(v).toLocaleString(undefined, {minimumFractionDigits: 2, maximumFractionDigits: 2});
    const pct = (v) => (Number(v) >= 0 ? '+' : '') + Number(v).toFixed(2) + '%';
    const sfmt = (v) => (Number(v) >= 0 ? '+' : '-') + fmt(Math.abs(Number(v)));
    const swapDelay = 300;

    // hold the old value during a short transition, last update wins
    function setValue(id, text, cls) {
      const el = document.getElementById(id);
      if (el.textContent === text) return;
      el.classList.add('updating');
      clearTimeout(el._swap);
      el._swap = setTimeout(() => {
        el.textContent = text;
        el.className = 'value ' + (cls || '');
        el.classList.remove('updating');
      }, swapDelay);
    }

    const es = new EventSource('/stream');
    es.addEventListener('snapshot', (ev) => {
      const s = JSON.parse(ev.data);
      const p = s.portfolio;
      setValue('total_value', fmt(p.total_value));
      setValue('total_invested', fmt(p.total_invested));
      setValue('profit_total', fmt(s.live.profit_total), Number(s.live.profit_total) >= 0 ? 'gain' : 'loss');
      setValue('daily_change', fmt(s.daily.total_daily_change), Number(s.daily.total_daily_change) >= 0 ? 'gain' : 'loss');
      setValue('btc_price', fmt(s.live.btc_price));
      setValue('eth_price', fmt(s.live.eth_price));
      document.getElementById('total_pct').textContent = pct(p.total_percent_change);
      document.getElementById('total_pct').className = 'delta ' + (Number(p.total_percent_change) >= 0 ? 'gain' : 'loss');
      document.getElementById('profit_loss').textContent = sfmt(p.profit_loss);
      document.getElementById('profit_loss').className = 'delta ' + (Number(p.profit_loss) >= 0 ? 'gain' : 'loss');
      document.getElementById('profit_percent').textContent = pct(s.live.profit_percent);
      document.getElementById('updated').textContent = 'updated ' + new Date(s.fetched_at).toLocaleTimeString();

      const rows = (s.transactions || []).slice(-10).reverse().map((tx) =>
        '<tr><td>' + tx.date + '</td><td>' + tx.coin + '</td><td>' + tx.type +
        '</td><td>' + tx.amount + '</td><td>' + fmt(tx.price) + '</td></tr>');
      document.getElementById('txs').innerHTML = rows.join('');
    });
  </script>
</body>
</html>
`
