package bedrock

const banner = `
 _             _                _
| |__  ___  __| |_ __ ___  ____| | __
| '_ \/ _ \/ _' | '__/ _ \/ ___| |/ /
| |_)|  __/ (_| | | | (_) | (__|   <
|_.__/\___|\__,_|_|  \___/\____|_|\_\

`
