package views

import (
	"strconv"
	"time"
)

// Sticky header and filter bar fade after a quiet period once the page is
// scrolled, and come back on any interaction.
const (
	StickyIdle        = 2 * time.Second
	StickyFadeOpacity = "0.25"
	StickyTopBuffer   = 10 // px
)

var stickyFadeScript = `(function(){` +
	`var els=[document.querySelector("header.site-header"),document.querySelector(".filters")].filter(Boolean);` +
	`if(!els.length)return;var t;` +
	`function show(){els.forEach(function(e){e.style.opacity="1"})}` +
	`function fade(){if(window.scrollY>` + strconv.Itoa(StickyTopBuffer) + `)els.forEach(function(e){e.style.opacity="` + StickyFadeOpacity + `"})}` +
	`function reset(){show();clearTimeout(t);if(window.scrollY<=` + strconv.Itoa(StickyTopBuffer) + `)return;t=setTimeout(fade,` + strconv.Itoa(int(StickyIdle.Milliseconds())) + `)}` +
	`["scroll","mousemove","touchstart","click"].forEach(function(n){window.addEventListener(n,reset,{passive:true})});` +
	`els.forEach(function(e){e.addEventListener("mouseenter",function(){show();clearTimeout(t)});e.addEventListener("mouseleave",reset)});` +
	`document.body.addEventListener("htmx:afterSwap",function(){var f=document.querySelector(".filters");if(f&&els.indexOf(f)<0)els.push(f)});` +
	`reset()})();`
