package phonetic

// seed is the built-in dictionary: common characters per reading, most
// frequent first.
var seed = []struct {
	reading string
	chars   string
}{
	{"ㄅㄚ", "八巴吧芭疤"},
	{"ㄅㄚˇ", "把靶"},
	{"ㄅㄚˋ", "爸霸罷壩"},
	{"ㄅㄨˋ", "不步部布簿"},
	{"ㄇㄚ", "媽"},
	{"ㄇㄚˇ", "馬碼瑪螞"},
	{"ㄇㄚ˙", "嗎麼"},
	{"ㄇㄣ˙", "們"},
	{"ㄉㄚˋ", "大"},
	{"ㄉㄜ˙", "的"},
	{"ㄉㄜˊ", "得德"},
	{"ㄊㄚ", "他她它牠塌"},
	{"ㄊㄞˊ", "台臺抬颱"},
	{"ㄋㄧˇ", "你妳擬"},
	{"ㄌㄜ˙", "了"},
	{"ㄌㄞˊ", "來萊"},
	{"ㄍㄜˋ", "個各"},
	{"ㄍㄨㄛˊ", "國"},
	{"ㄏㄠˇ", "好郝"},
	{"ㄏㄨㄚˋ", "話化畫劃"},
	{"ㄐㄧㄚ", "家加佳嘉夾"},
	{"ㄒㄧㄝˋ", "謝械卸懈"},
	{"ㄓ", "之知支只汁枝芝"},
	{"ㄓˋ", "至制治志製致置智質秩誌滯稚"},
	{"ㄓㄜˋ", "這浙"},
	{"ㄓㄨˋ", "注住助祝著柱駐"},
	{"ㄓㄨㄥ", "中鐘忠終鍾衷"},
	{"ㄓㄨㄥˋ", "重眾種仲"},
	{"ㄕˋ", "是事市世式試室視示士勢釋飾"},
	{"ㄕㄤˋ", "上尚"},
	{"ㄖㄣˊ", "人仁任"},
	{"ㄗㄞˋ", "在再載"},
	{"ㄧ", "一衣依醫伊"},
	{"ㄧㄡˇ", "有友"},
	{"ㄧㄣ", "音因陰殷"},
	{"ㄨㄛˇ", "我"},
	{"ㄨㄢ", "灣彎"},
	{"ㄨㄣˊ", "文聞紋蚊"},
	{"ㄩˇ", "語與雨羽宇"},
}

// seedFreqStep spaces the frequencies of one reading so learned choices
// can overtake seeded ones after a few uses.
const seedFreqStep = 10
