package dashboard

import "net/http"

func (d *Dashboard) serveFrontend(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(frontendHTML))
}

const frontendHTML = `<!DOCTYPE html>
<html lang="en"><head>
<meta charset="utf-8"><meta name="viewport" content="width=device-width,initial-scale=1">
<title>KOL Feed</title>
<link href="https://fonts.googleapis.com/css2?family=JetBrains+Mono:wght@300;400;500;600;700&family=Space+Grotesk:wght@400;500;600;700&display=swap" rel="stylesheet">
<style>
:root{--bg:#08090d;--sf:#0f1118;--sf2:#161923;--bd:#252a3a;--tx:#c8cdd8;--tx2:#8891a5;--tx3:#5a6278;--ac:#3b82f6;--gn:#10b981;--rd:#ef4444;--or:#f59e0b;--pr:#a855f7}
*{margin:0;padding:0;box-sizing:border-box}
body{font-family:'JetBrains Mono',monospace;background:var(--bg);color:var(--tx);min-height:100vh}
.app{max-width:1200px;margin:0 auto;padding:20px 24px}
.hdr{display:flex;justify-content:space-between;align-items:center;padding:16px 0;border-bottom:1px solid var(--bd);margin-bottom:24px}
.hdr h1{font-family:'Space Grotesk',sans-serif;font-size:22px;font-weight:700;background:linear-gradient(135deg,var(--ac),var(--pr));-webkit-background-clip:text;-webkit-text-fill-color:transparent}
.live{font-size:9px;padding:3px 10px;border-radius:20px;background:rgba(16,185,129,.1);color:var(--gn);border:1px solid rgba(16,185,129,.2);letter-spacing:1.5px;font-weight:600;margin-left:12px;-webkit-text-fill-color:var(--gn)}
.nav{display:flex;gap:4px;margin-bottom:24px;background:var(--sf);border-radius:10px;padding:4px;border:1px solid var(--bd)}
.nav button{font-family:'JetBrains Mono',monospace;font-size:11px;padding:9px 18px;border:none;background:0;color:var(--tx2);cursor:pointer;border-radius:8px;transition:.2s}
.nav button:hover{color:var(--tx);background:var(--sf2)}
.nav button.on{background:var(--ac);color:#fff}
.pn{background:var(--sf);border:1px solid var(--bd);border-radius:12px;margin-bottom:18px;overflow:hidden}
.pn-h{display:flex;justify-content:space-between;align-items:center;padding:13px 18px;border-bottom:1px solid var(--bd);background:var(--sf2)}
.pn-h h2{font-family:'Space Grotesk',sans-serif;font-size:13px;font-weight:600}
table{width:100%;border-collapse:collapse}
th{text-align:left;font-size:9px;color:var(--tx3);text-transform:uppercase;letter-spacing:.8px;padding:10px 14px;border-bottom:1px solid var(--bd)}
td{padding:10px 14px;border-bottom:1px solid rgba(37,42,58,.4);font-size:12px}
tr:hover td{background:rgba(59,130,246,.02)}
.buy{color:var(--gn);font-weight:600}.sell{color:var(--rd);font-weight:600}
.pnl-p{color:var(--gn)}.pnl-n{color:var(--rd)}
.kol{display:flex;align-items:center;gap:8px}
.kol img{width:22px;height:22px;border-radius:50%;background:var(--sf2)}
.mint{color:var(--tx3);font-size:10px;cursor:pointer}.mint:hover{color:var(--ac)}
.btn{font-family:'JetBrains Mono',monospace;font-size:10px;padding:6px 14px;border:1px solid var(--bd);background:var(--sf2);color:var(--tx);border-radius:7px;cursor:pointer}
.btn:hover{border-color:var(--ac)}
.win{display:flex;gap:4px}
.win button{font-size:10px;padding:4px 10px;border:1px solid var(--bd);background:0;color:var(--tx2);border-radius:6px;cursor:pointer}
.win button.on{border-color:var(--ac);color:var(--ac)}
.scan{font-size:10px;color:var(--tx3)}
.empty{padding:30px;text-align:center;color:var(--tx3);font-size:12px}
</style></head><body><div id="root" class="app"></div>
<script crossorigin src="https://unpkg.com/react@18/umd/react.production.min.js"></script>
<script crossorigin src="https://unpkg.com/react-dom@18/umd/react-dom.production.min.js"></script>
<script crossorigin src="https://unpkg.com/@babel/standalone/babel.min.js"></script>
<script type="text/babel">
const {useState,useEffect} = React;
const api = p => fetch('/api/'+p).then(r=>r.json());
const fmtSol = v => (v>=0?'+':'')+v.toFixed(2)+' SOL';
const ago = ts => {const s=Math.floor(Date.now()/1000-ts);if(s<60)return s+'s';if(s<3600)return Math.floor(s/60)+'m';if(s<86400)return Math.floor(s/3600)+'h';return Math.floor(s/86400)+'d'};
const short = m => m?m.slice(0,4)+'..'+m.slice(-4):'';

function Feed(){
  const [trades,setTrades]=useState([]);
  useEffect(()=>{const load=()=>api('trades').then(setTrades);load();const t=setInterval(load,15000);return()=>clearInterval(t)},[]);
  if(!trades.length)return <div className="empty">no trades yet</div>;
  return <table><thead><tr><th>KOL</th><th>Action</th><th>Token</th><th>Amount</th><th>When</th></tr></thead><tbody>
    {trades.map(t=><tr key={t.signature}>
      <td><span className="kol">{t.kol_avatar&&<img src={t.kol_avatar}/>}{t.kol_name}</span></td>
      <td><span className={t.action==='Buy'?'buy':'sell'}>{t.action}</span></td>
      <td>{t.token_symbol} <span className="mint">{short(t.token_mint)}</span></td>
      <td>{t.amount_sol.toFixed(3)} SOL</td>
      <td>{ago(t.block_time)}</td>
    </tr>)}
  </tbody></table>
}

function Leaderboard(){
  const [rows,setRows]=useState([]);
  const [win,setWin]=useState('day');
  useEffect(()=>{api('leaderboard?window='+win).then(setRows)},[win]);
  return <div>
    <div className="pn-h"><h2>Leaderboard</h2><div className="win">
      {['day','week','month'].map(w=><button key={w} className={w===win?'on':''} onClick={()=>setWin(w)}>{w}</button>)}
    </div></div>
    <table><thead><tr><th>#</th><th>KOL</th><th>Trades</th><th>PnL</th><th>Win Rate</th></tr></thead><tbody>
      {rows.map((r,i)=><tr key={r.kol_name}>
        <td>{i+1}</td>
        <td><span className="kol">{r.avatar&&<img src={r.avatar}/>}{r.kol_name}</span></td>
        <td>{r.trade_count}</td>
        <td className={r.pnl_sol>=0?'pnl-p':'pnl-n'}>{fmtSol(r.pnl_sol)}</td>
        <td>{r.win_rate.toFixed(0)}%</td>
      </tr>)}
    </tbody></table>
  </div>
}

function ScanBar(){
  const [st,setSt]=useState(null);
  useEffect(()=>{const load=()=>api('scan/status').then(setSt);load();const t=setInterval(load,5000);return()=>clearInterval(t)},[]);
  const scan=()=>fetch('/api/scan',{method:'POST'});
  if(!st)return null;
  return <div className="hdr" style={{border:0,padding:'0 0 12px'}}>
    <span className="scan">{st.phase==='scanning'?'scanning '+st.wallets_done+'/'+st.wallets_total+' wallets, '+st.trades_found+' trades':'scanner '+st.phase+' · '+st.credits_used+' credits used'}</span>
    <button className="btn" onClick={scan} disabled={st.phase==='scanning'}>Scan Now</button>
  </div>
}

function App(){
  const [tab,setTab]=useState('feed');
  return <div>
    <div className="hdr"><h1>KOL Feed<span className="live">LIVE</span></h1></div>
    <ScanBar/>
    <div className="nav">
      <button className={tab==='feed'?'on':''} onClick={()=>setTab('feed')}>Live Feed</button>
      <button className={tab==='board'?'on':''} onClick={()=>setTab('board')}>Leaderboard</button>
    </div>
    <div className="pn">{tab==='feed'?<Feed/>:<Leaderboard/>}</div>
  </div>
}
ReactDOM.createRoot(document.getElementById('root')).render(<App/>);
</script></body></html>` + "\n"
